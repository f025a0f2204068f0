/*
Package feature names the features an ensemble is evaluated on. The
position of a name in Features is the index of the feature in the
vectors passed to the compiled library.
*/
package feature

import "fmt"

/*
Features is an ordered list of feature names: the i-th name labels
f[i] in a feature vector.
*/
type Features []string

/*
Index returns the position of the feature with the given name and
true, or -1 and false if there is none.
*/
func (fs Features) Index(name string) (int, bool) {
	for i, n := range fs {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

/*
Validate takes the number of features an ensemble reads and returns
an error if the list has empty or duplicated names or is too short to
name all of them.
*/
func (fs Features) Validate(numFeatures int) error {
	seen := make(map[string]bool, len(fs))
	for i, n := range fs {
		if n == "" {
			return fmt.Errorf("feature %d has no name", i)
		}
		if seen[n] {
			return fmt.Errorf("feature %s is declared more than once", n)
		}
		seen[n] = true
	}
	if len(fs) < numFeatures {
		return fmt.Errorf("%d features declared, ensemble reads %d", len(fs), numFeatures)
	}
	return nil
}
