package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// PropertyError is returned by Normalize when a single property cannot be
// rendered.
type PropertyError struct {
	Type PropertyType
	Err  error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property type '%s': %v", e.Type, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// Normalize renders a property as the text written to a backup cell.
func Normalize(prop Property) (string, error) {
	switch p := prop.(type) {
	case *TitleProperty:
		return joinPlainText(p.Title), nil
	case *RichTextProperty:
		return joinPlainText(p.RichText), nil
	case *NumberProperty:
		return formatNumber(p.Number), nil
	case *SelectProperty:
		if p.Select == nil {
			return "", nil
		}
		return p.Select.Name, nil
	case *MultiSelectProperty:
		names := make([]string, len(p.MultiSelect))
		for i, option := range p.MultiSelect {
			names[i] = option.Name
		}
		return strings.Join(names, ", "), nil
	case *DateProperty:
		if p.Date == nil {
			return "", nil
		}
		if p.Date.End != "" {
			return p.Date.Start + " - " + p.Date.End, nil
		}
		return p.Date.Start, nil
	case *CheckboxProperty:
		if p.Checkbox {
			return "Yes", nil
		}
		return "No", nil
	case *URLProperty:
		return p.URL, nil
	case *EmailProperty:
		return p.Email, nil
	case *PhoneNumberProperty:
		return p.PhoneNumber, nil
	case *StatusProperty:
		if p.Status == nil {
			return "", nil
		}
		return p.Status.Name, nil
	case *PeopleProperty:
		names := make([]string, len(p.People))
		for i, person := range p.People {
			names[i] = person.Name
		}
		return strings.Join(names, ", "), nil
	case *FilesProperty:
		names := make([]string, len(p.Files))
		for i, file := range p.Files {
			names[i] = file.Name
		}
		return strings.Join(names, ", "), nil
	case *RelationProperty:
		return fmt.Sprintf("%d relations", len(p.Relation)), nil
	case *CreatedTimeProperty:
		return p.CreatedTime, nil
	case *LastEditedTimeProperty:
		return p.LastEditedTime, nil
	case *UnknownProperty:
		var buf bytes.Buffer
		if err := json.Compact(&buf, p.Raw); err != nil {
			return "", &PropertyError{Type: p.Type(), Err: err}
		}
		return buf.String(), nil
	case *MalformedProperty:
		return "", &PropertyError{Type: p.Type(), Err: p.Err}
	case nil:
		return "", nil
	default:
		return "", &PropertyError{Type: prop.Type(), Err: fmt.Errorf("unsupported property %T", prop)}
	}
}

// CellValue is Normalize with the failure mapped to an empty cell.
func CellValue(log zerolog.Logger, prop Property) string {
	value, err := Normalize(prop)
	if err != nil {
		cause := err
		var propErr *PropertyError
		if errors.As(err, &propErr) {
			cause = propErr.Err
		}
		log.Warn().Str("type", string(prop.Type())).Msgf("Error extracting property type '%s': %v", prop.Type(), cause)
		return ""
	}
	return value
}

// formatNumber renders the decoded value, so 1.50 and 1e5 become 1.5 and
// 100000. Integer literals are kept as sent.
func formatNumber(n json.Number) string {
	str := n.String()
	if str == "" || !strings.ContainsAny(str, ".eE") {
		return str
	}
	f, err := n.Float64()
	if err != nil {
		return str
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinPlainText(fragments []RichText) string {
	texts := make([]string, len(fragments))
	for i, fragment := range fragments {
		texts[i] = fragment.PlainText
	}
	return strings.Join(texts, " ")
}
