package models

import "time"

// Field types supported by the builder. The set is fixed; there is no
// extension mechanism.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldRadio    = "radio"
	FieldCheckbox = "checkbox"
	FieldEmail    = "email"
	FieldNumber   = "number"
	FieldDate     = "date"
)

var fieldTypes = map[string]bool{
	FieldText:     true,
	FieldTextarea: true,
	FieldSelect:   true,
	FieldRadio:    true,
	FieldCheckbox: true,
	FieldEmail:    true,
	FieldNumber:   true,
	FieldDate:     true,
}

func ValidFieldType(t string) bool {
	return fieldTypes[t]
}

// FieldValidation is declared on a field but enforced by the builder client;
// the server stores it untouched.
type FieldValidation struct {
	Min     *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max     *float64 `bson:"max,omitempty" json:"max,omitempty"`
	Pattern string   `bson:"pattern,omitempty" json:"pattern,omitempty"`
	Message string   `bson:"message,omitempty" json:"message,omitempty"`
}

// FieldStyle holds the per-widget presentation knobs the builder exposes.
type FieldStyle struct {
	Width           string `bson:"width,omitempty" json:"width,omitempty"`
	FontSize        string `bson:"fontSize,omitempty" json:"fontSize,omitempty"`
	Color           string `bson:"color,omitempty" json:"color,omitempty"`
	BackgroundColor string `bson:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BorderColor     string `bson:"borderColor,omitempty" json:"borderColor,omitempty"`
	BorderRadius    string `bson:"borderRadius,omitempty" json:"borderRadius,omitempty"`
}

// FormField is one typed widget in a form. The id is caller-generated and
// unique within the form; list position is display and submission order.
type FormField struct {
	ID          string           `bson:"id" json:"id"`
	Type        string           `bson:"type" json:"type"`
	Label       string           `bson:"label" json:"label"`
	Placeholder string           `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	Required    bool             `bson:"required" json:"required"`
	Options     []string         `bson:"options,omitempty" json:"options,omitempty"`
	Validation  *FieldValidation `bson:"validation,omitempty" json:"validation,omitempty"`
	Style       *FieldStyle      `bson:"style,omitempty" json:"style,omitempty"`
}

// FormStyle is form-level presentation.
type FormStyle struct {
	BackgroundColor       string `bson:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	TextColor             string `bson:"textColor,omitempty" json:"textColor,omitempty"`
	FontFamily            string `bson:"fontFamily,omitempty" json:"fontFamily,omitempty"`
	PrimaryColor          string `bson:"primaryColor,omitempty" json:"primaryColor,omitempty"`
	SubmitButtonText      string `bson:"submitButtonText,omitempty" json:"submitButtonText,omitempty"`
	SubmitButtonColor     string `bson:"submitButtonColor,omitempty" json:"submitButtonColor,omitempty"`
	SubmitButtonTextColor string `bson:"submitButtonTextColor,omitempty" json:"submitButtonTextColor,omitempty"`
}

// FormSettings covers behavior toggles: progress display and file uploads.
type FormSettings struct {
	ShowProgress     bool     `bson:"showProgress" json:"showProgress"`
	ShowFieldNumbers bool     `bson:"showFieldNumbers" json:"showFieldNumbers"`
	AllowFileUploads bool     `bson:"allowFileUploads" json:"allowFileUploads"`
	MaxFileSize      int      `bson:"maxFileSize" json:"maxFileSize"` // megabytes
	AllowedFileTypes []string `bson:"allowedFileTypes" json:"allowedFileTypes"`
}

// Form is a named, ordered collection of fields plus presentation settings.
// ID is the external identifier generated at creation; the store's own _id
// never leaves the repository layer.
type Form struct {
	ID          string       `bson:"id" json:"id"`
	Title       string       `bson:"title" json:"title"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Fields      []FormField  `bson:"fields" json:"fields"`
	Style       FormStyle    `bson:"style" json:"style"`
	Settings    FormSettings `bson:"settings" json:"settings"`
	IsPublished bool         `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// FieldByID returns the field with the given id, or nil.
func (f *Form) FieldByID(id string) *FormField {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i]
		}
	}
	return nil
}

// DefaultStyle mirrors the builder's initial palette.
func DefaultStyle() FormStyle {
	return FormStyle{
		BackgroundColor:       "#ffffff",
		TextColor:             "#000000",
		SubmitButtonText:      "Submit",
		SubmitButtonColor:     "#3b82f6",
		SubmitButtonTextColor: "#ffffff",
	}
}

// DefaultSettings mirrors the builder's initial settings object.
func DefaultSettings() FormSettings {
	return FormSettings{
		MaxFileSize:      10,
		AllowedFileTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
	}
}
