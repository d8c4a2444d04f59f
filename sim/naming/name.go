package naming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate checks that a name follows the naming convention. A name is a
// dot-separated hierarchy of elements. Each element is non-empty, starts
// with a capital letter, contains no underscore, quote or dash, and may carry
// square-bracket indices, e.g. "Platform.Endpoint[1].Delay".
func Validate(name string) error {
	if name == "" {
		return errors.New("name must not be empty")
	}

	for _, token := range strings.Split(name, ".") {
		if err := validateToken(token); err != nil {
			return fmt.Errorf("name %s is not valid: %w", name, err)
		}
	}

	return nil
}

// NameMustBeValid panics if the name does not follow the naming convention.
func NameMustBeValid(name string) {
	if err := Validate(name); err != nil {
		panic(err.Error())
	}
}

func validateToken(token string) error {
	elemName, rest, _ := strings.Cut(token, "[")
	if elemName == "" {
		return errors.New("name element must not be empty")
	}

	if strings.ContainsAny(elemName, "_\"'-]") {
		return errors.New("name element must not contain _, \", ', - or ]")
	}

	if elemName[0] < 'A' || elemName[0] > 'Z' {
		return errors.New("name element must start with a capital letter")
	}

	if rest == "" {
		if strings.Contains(token, "[") {
			return errors.New("name bracket must match")
		}

		return nil
	}

	return validateIndices("[" + rest)
}

func validateIndices(s string) error {
	for s != "" {
		if s[0] != '[' {
			return errors.New("name bracket must match")
		}

		end := strings.IndexByte(s, ']')
		if end < 0 {
			return errors.New("name bracket must match")
		}

		if _, err := strconv.Atoi(s[1:end]); err != nil {
			return errors.New("name index must be integer")
		}

		s = s[end+1:]
	}

	return nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and
// an index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
