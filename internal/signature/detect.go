package signature

// Match is a detected asset payload.
type Match struct {
	Kind    Kind
	Payload []byte
}

// Detect tests kinds in the given order and returns the first whose carve
// yields a payload longer than minLen.
func Detect(buf []byte, kinds []Kind, minLen int) (Kind, []byte, bool) {
	for _, k := range kinds {
		if !k.Valid() || !Present(k, buf) {
			continue
		}
		payload, err := Carve(k, buf)
		if err != nil {
			continue
		}
		if len(payload) > minLen {
			return k, payload, true
		}
	}
	return 0, nil, false
}

// Identify is Detect returning ErrNoMatch when no kind produced a payload.
func Identify(buf []byte, kinds []Kind, minLen int) (Match, error) {
	k, payload, ok := Detect(buf, kinds, minLen)
	if !ok {
		return Match{}, ErrNoMatch
	}
	return Match{Kind: k, Payload: payload}, nil
}
