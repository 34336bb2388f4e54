package trimarea

// Bootlogs returns copies of every boot log slot for the family, in slot order.
// Offsets are resolved and range checked before anything is copied.
func (img *Image) Bootlogs(p Platform) ([][]byte, error) {
	fields, err := p.Bootlogs()
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if err := img.check(f); err != nil {
			return nil, err
		}
	}
	logs := make([][]byte, len(fields))
	for i, f := range fields {
		logs[i], err = img.Slice(f)
		if err != nil {
			return nil, err
		}
	}
	return logs, nil
}
