package training

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	MinModuleID = 1
	MaxModuleID = 14
)

type Module struct {
	ID   int
	Name string
}

var (
	// "Módulo 3", "MODULO 03:", "Module 7", "Mod. 2"; matched on Fold output.
	moduleKeywordPattern = regexp.MustCompile(`\b(?:modulo|module|mod)\s*(\d{1,3})\b`)
	// "M5 - ...". Product names like "M365" share the shape, so this only
	// applies when no keyword is present.
	moduleShortPattern = regexp.MustCompile(`\bm\s*(\d{1,3})\b`)
	// "3. Title", "03 - Title", "12 Title".
	moduleLeadingPattern = regexp.MustCompile(`^(\d{1,3})\b`)
)

// ParseModuleNumber extracts the module number embedded in a training title.
func ParseModuleNumber(title string) (int, error) {
	folded := Fold(title)
	if folded == "" {
		return 0, ErrMissingTitle
	}

	var outOfRange []int
	for _, pattern := range []*regexp.Regexp{moduleKeywordPattern, moduleShortPattern, moduleLeadingPattern} {
		for _, match := range pattern.FindAllStringSubmatch(folded, -1) {
			number, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if number < MinModuleID || number > MaxModuleID {
				outOfRange = append(outOfRange, number)
				continue
			}
			return number, nil
		}
	}

	if len(outOfRange) > 0 {
		return 0, fmt.Errorf("%w: %d", ErrModuleOutOfRange, outOfRange[0])
	}
	return 0, fmt.Errorf("%w: %q", ErrModuleNotFound, title)
}

// ModuleCatalog returns the fixed set of modules with placeholder names.
func ModuleCatalog() []Module {
	modules := make([]Module, 0, MaxModuleID)
	for id := MinModuleID; id <= MaxModuleID; id++ {
		modules = append(modules, Module{ID: id, Name: fmt.Sprintf("Módulo %d", id)})
	}
	return modules
}
