package cache

// ResultKeyOpts are the inputs besides the job that change a packed result.
type ResultKeyOpts struct {
	Engine  string `json:"engine"`
	Version string `json:"version"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey returns the key of the packed result for a job whose
	// canonical encoding hashes to jobHash.
	ResultKey(jobHash string, opts ResultKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey hashes jobHash together with opts under the "result" prefix.
func (DefaultKeyer) ResultKey(jobHash string, opts ResultKeyOpts) string {
	return hashKey("result", jobHash, opts)
}
