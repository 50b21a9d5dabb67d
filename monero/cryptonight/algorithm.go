package cryptonight

import (
	"errors"
	"fmt"
)

type Algorithm uint8

const (
	AlgorithmMonero = Algorithm(iota)
	AlgorithmAeon
	AlgorithmIPBC
	AlgorithmStellite
)

var algorithmNames = [...]string{
	AlgorithmMonero:   "cryptonight_monero",
	AlgorithmAeon:     "cryptonight_aeon",
	AlgorithmIPBC:     "cryptonight_ipbc",
	AlgorithmStellite: "cryptonight_stellite",
}

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

func ParseAlgorithm(name string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Family tweak family of the algorithm
func (a Algorithm) Family() Family {
	if a == AlgorithmStellite {
		return FamilyStellite
	}
	return FamilyMonero
}

func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

func (a Algorithm) MarshalText() ([]byte, error) {
	if int(a) >= len(algorithmNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(a))
	}
	return []byte(algorithmNames[a]), nil
}

func (a *Algorithm) UnmarshalText(text []byte) (err error) {
	*a, err = ParseAlgorithm(string(text))
	return err
}
