package cache

// Keyer produces cache keys.
type Keyer interface {
	// NumbersKey identifies the numbers fetched for a birth date and time
	// from a given source.
	NumbersKey(source, birthdate, birthtime string) string
}

// DefaultKeyer hashes key components.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// NumbersKey returns "numbers:<hash>".
func (DefaultKeyer) NumbersKey(source, birthdate, birthtime string) string {
	return hashKey("numbers", source, birthdate, birthtime)
}
