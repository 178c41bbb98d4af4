package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Page is one row of a Notion database as returned by a query.
type Page struct {
	ID             string     `json:"id"`
	CreatedTime    string     `json:"created_time"`
	LastEditedTime string     `json:"last_edited_time"`
	Properties     Properties `json:"properties"`
}

// Properties keeps the properties of a page in the order the API sent them.
type Properties struct {
	names  []string
	values map[string]Property
}

func (p Properties) Names() []string {
	return p.names
}

func (p Properties) Get(name string) (Property, bool) {
	prop, ok := p.values[name]
	return prop, ok
}

func (p Properties) Len() int {
	return len(p.names)
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	*p = Properties{values: map[string]Property{}}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("properties: expected object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("properties: unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("properties: %s: %w", name, err)
		}

		if _, dup := p.values[name]; !dup {
			p.names = append(p.names, name)
		}
		p.values[name] = decodeProperty(raw)
	}

	_, err = dec.Token()
	return err
}

type PropertyType string

const (
	TypeTitle          PropertyType = "title"
	TypeRichText       PropertyType = "rich_text"
	TypeNumber         PropertyType = "number"
	TypeSelect         PropertyType = "select"
	TypeMultiSelect    PropertyType = "multi_select"
	TypeDate           PropertyType = "date"
	TypeCheckbox       PropertyType = "checkbox"
	TypeURL            PropertyType = "url"
	TypeEmail          PropertyType = "email"
	TypePhoneNumber    PropertyType = "phone_number"
	TypeStatus         PropertyType = "status"
	TypePeople         PropertyType = "people"
	TypeFiles          PropertyType = "files"
	TypeRelation       PropertyType = "relation"
	TypeCreatedTime    PropertyType = "created_time"
	TypeLastEditedTime PropertyType = "last_edited_time"
)

// Property is a typed page property. The set of implementations is closed;
// types the decoder does not know become *UnknownProperty.
type Property interface {
	Type() PropertyType
	property()
}

type RichText struct {
	PlainText string `json:"plain_text"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type User struct {
	Name string `json:"name"`
}

type File struct {
	Name string `json:"name"`
}

type Relation struct {
	ID string `json:"id"`
}

type TitleProperty struct {
	Title []RichText `json:"title"`
}

type RichTextProperty struct {
	RichText []RichText `json:"rich_text"`
}

type NumberProperty struct {
	Number json.Number `json:"number"`
}

type SelectProperty struct {
	Select *SelectOption `json:"select"`
}

type MultiSelectProperty struct {
	MultiSelect []SelectOption `json:"multi_select"`
}

type DateProperty struct {
	Date *DateRange `json:"date"`
}

type CheckboxProperty struct {
	Checkbox bool `json:"checkbox"`
}

type URLProperty struct {
	URL string `json:"url"`
}

type EmailProperty struct {
	Email string `json:"email"`
}

type PhoneNumberProperty struct {
	PhoneNumber string `json:"phone_number"`
}

type StatusProperty struct {
	Status *SelectOption `json:"status"`
}

type PeopleProperty struct {
	People []User `json:"people"`
}

type FilesProperty struct {
	Files []File `json:"files"`
}

type RelationProperty struct {
	Relation []Relation `json:"relation"`
}

type CreatedTimeProperty struct {
	CreatedTime string `json:"created_time"`
}

type LastEditedTimeProperty struct {
	LastEditedTime string `json:"last_edited_time"`
}

// UnknownProperty holds a property of a type this tool does not render.
type UnknownProperty struct {
	TypeName string
	Raw      json.RawMessage
}

// MalformedProperty holds a property whose payload did not match its type.
type MalformedProperty struct {
	TypeName string
	Raw      json.RawMessage
	Err      error
}

func (*TitleProperty) Type() PropertyType          { return TypeTitle }
func (*RichTextProperty) Type() PropertyType       { return TypeRichText }
func (*NumberProperty) Type() PropertyType         { return TypeNumber }
func (*SelectProperty) Type() PropertyType         { return TypeSelect }
func (*MultiSelectProperty) Type() PropertyType    { return TypeMultiSelect }
func (*DateProperty) Type() PropertyType           { return TypeDate }
func (*CheckboxProperty) Type() PropertyType       { return TypeCheckbox }
func (*URLProperty) Type() PropertyType            { return TypeURL }
func (*EmailProperty) Type() PropertyType          { return TypeEmail }
func (*PhoneNumberProperty) Type() PropertyType    { return TypePhoneNumber }
func (*StatusProperty) Type() PropertyType         { return TypeStatus }
func (*PeopleProperty) Type() PropertyType         { return TypePeople }
func (*FilesProperty) Type() PropertyType          { return TypeFiles }
func (*RelationProperty) Type() PropertyType       { return TypeRelation }
func (*CreatedTimeProperty) Type() PropertyType    { return TypeCreatedTime }
func (*LastEditedTimeProperty) Type() PropertyType { return TypeLastEditedTime }
func (p *UnknownProperty) Type() PropertyType      { return PropertyType(p.TypeName) }
func (p *MalformedProperty) Type() PropertyType    { return PropertyType(p.TypeName) }

func (*TitleProperty) property()          {}
func (*RichTextProperty) property()       {}
func (*NumberProperty) property()         {}
func (*SelectProperty) property()         {}
func (*MultiSelectProperty) property()    {}
func (*DateProperty) property()           {}
func (*CheckboxProperty) property()       {}
func (*URLProperty) property()            {}
func (*EmailProperty) property()          {}
func (*PhoneNumberProperty) property()    {}
func (*StatusProperty) property()         {}
func (*PeopleProperty) property()         {}
func (*FilesProperty) property()          {}
func (*RelationProperty) property()       {}
func (*CreatedTimeProperty) property()    {}
func (*LastEditedTimeProperty) property() {}
func (*UnknownProperty) property()        {}
func (*MalformedProperty) property()      {}

// decodeProperty never fails: payloads that do not decode are kept as
// *MalformedProperty so a bad cell does not abort the whole page.
func decodeProperty(raw json.RawMessage) Property {
	var head struct {
		Type PropertyType `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return &MalformedProperty{Raw: raw, Err: err}
	}

	var prop Property
	switch head.Type {
	case TypeTitle:
		prop = &TitleProperty{}
	case TypeRichText:
		prop = &RichTextProperty{}
	case TypeNumber:
		prop = &NumberProperty{}
	case TypeSelect:
		prop = &SelectProperty{}
	case TypeMultiSelect:
		prop = &MultiSelectProperty{}
	case TypeDate:
		prop = &DateProperty{}
	case TypeCheckbox:
		prop = &CheckboxProperty{}
	case TypeURL:
		prop = &URLProperty{}
	case TypeEmail:
		prop = &EmailProperty{}
	case TypePhoneNumber:
		prop = &PhoneNumberProperty{}
	case TypeStatus:
		prop = &StatusProperty{}
	case TypePeople:
		prop = &PeopleProperty{}
	case TypeFiles:
		prop = &FilesProperty{}
	case TypeRelation:
		prop = &RelationProperty{}
	case TypeCreatedTime:
		prop = &CreatedTimeProperty{}
	case TypeLastEditedTime:
		prop = &LastEditedTimeProperty{}
	default:
		return &UnknownProperty{TypeName: string(head.Type), Raw: raw}
	}

	if err := json.Unmarshal(raw, prop); err != nil {
		return &MalformedProperty{TypeName: string(head.Type), Raw: raw, Err: err}
	}
	return prop
}
