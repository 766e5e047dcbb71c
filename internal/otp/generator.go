package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/Stewz00/go-otp-service/internal/interfaces"
)

// Length is the number of digits in a generated code.
const Length = 6

var codeSpace = big.NewInt(1_000_000)

// Generator produces fixed-width numeric one-time passcodes from crypto/rand.
type Generator struct{}

// Verify that Generator implements CodeGenerator interface
var _ interfaces.CodeGenerator = (*Generator)(nil)

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a 6-digit code drawn uniformly from [0, 999999],
// zero-padded so leading-zero codes keep their full width. The code is a
// string end to end; storing it as an integer would silently drop leading
// zeros.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", Length, n.Int64()), nil
}
