package hierarchy

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
)

// invalidNameChars are rejected anywhere in a node name.
const invalidNameChars = `<>:"/\|?*`

// reservedDeviceNames are Windows device names that cannot be used as file
// names, with or without an extension, case-insensitively.
var reservedDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// ValidateName checks a repository or project name against the naming rules.
// Failures are reported as apperr.ValidationError with a structured reason.
func ValidateName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("name must not be empty"),
		validation.RuneLength(1, 255).Error("name must be at most 255 characters"),
		validation.By(nameRules),
	)
	if err != nil {
		return apperr.Invalid(err.Error())
	}
	return nil
}

// nameRules holds the checks ozzo has no stock rule for.
func nameRules(value interface{}) error {
	name, _ := value.(string)

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name must not be blank")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name must not be %q", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("name must not start with a dot")
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, " ") {
		return fmt.Errorf("name must not end with a dot or space")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("name must not contain control characters")
		}
		if strings.ContainsRune(invalidNameChars, r) {
			return fmt.Errorf("name must not contain any of %s", invalidNameChars)
		}
	}

	// Windows device names are reserved even with an extension (CON.txt).
	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if _, reserved := reservedDeviceNames[strings.ToUpper(base)]; reserved {
		return fmt.Errorf("%q is a reserved name", name)
	}

	return nil
}
