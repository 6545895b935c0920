package tradebook

import "errors"

// Validate splits trades into the ones the engine accepts and the rejected
// ones. Rejections carry the index of the record in trades.
func Validate(trades []Trade) (valid []Trade, rejected []*ValidationError) {
	valid = make([]Trade, 0, len(trades))
	for i, t := range trades {
		if err := t.Validate(); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				verr = &ValidationError{Field: "record", Reason: err.Error()}
			}
			verr.Record = i
			rejected = append(rejected, verr)
			continue
		}
		valid = append(valid, t)
	}
	return valid, rejected
}
