package identity

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

const (
	PrintedKey = "printed"
	Sha256Key  = "sha256"
)

var ErrUnknownKey = errors.New("unknown key strategy")

// KeyFunc derives the identity key of an operation.
type KeyFunc func(operation *ast.OperationDefinition) string

// Print renders a document with a fixed formatter. Comments and source
// whitespace are not carried over, selection order is.
func Print(doc *ast.QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String()
}

func PrintOperation(operation *ast.OperationDefinition) string {
	return Print(&ast.QueryDocument{
		Operations: ast.OperationList{operation},
	})
}

// Key uses the printed operation itself as identity.
func Key(operation *ast.OperationDefinition) string {
	return PrintOperation(operation)
}

// HashedKey is the hex encoded sha256 of the printed operation.
func HashedKey(operation *ast.OperationDefinition) string {
	return Hash(PrintOperation(operation))
}

func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func KeyFuncFor(strategy string) (KeyFunc, error) {
	switch strategy {
	case "", PrintedKey:
		return Key, nil
	case Sha256Key:
		return HashedKey, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strategy)
	}
}
