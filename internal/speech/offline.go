package speech

import "context"

// Offline stands in for the backend when no API key is configured. Every
// request fails with Err, so narration stays silent and pictures fall back
// to the stock pool.
type Offline struct {
	Err error
}

func (o Offline) err() error {
	if o.Err != nil {
		return o.Err
	}
	return ErrMissingAPIKey
}

func (o Offline) Synthesize(context.Context, string, string) ([]byte, error) {
	return nil, o.err()
}

func (o Offline) GenerateImage(context.Context, string, string, string) (string, error) {
	return "", o.err()
}
