package validation

import (
	"errors"
	"testing"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title      string `json:"title" validate:"required" msg:"Title is required"`
	Experience int    `json:"experience" validate:"min=0" msg:"Experience must be at least 0"`
	Education  string `json:"education" validate:"oneof=Intermediate Graduate 'Post Graduate'"`
}

type upload struct {
	FileName    string `json:"resume" validate:"document" msg:"Only PDF or Word documents are allowed"`
	ContentType string `json:"-"`
}

func TestStructValid(t *testing.T) {
	err := Struct(&sample{Title: "x", Experience: 0, Education: "Post Graduate"})
	assert.NoError(t, err)
}

func TestStructFieldMessages(t *testing.T) {
	err := Struct(&sample{Experience: -1, Education: "PhD"})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Title is required", verrs["title"])
	assert.Equal(t, "Experience must be at least 0", verrs["experience"])
	assert.Contains(t, verrs["education"], "oneof")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestDocumentRule(t *testing.T) {
	tests := []struct {
		name  string
		input upload
		valid bool
	}{
		{name: "pdf extension", input: upload{FileName: "cv.PDF"}, valid: true},
		{name: "docx extension", input: upload{FileName: "cv.docx"}, valid: true},
		{name: "word mime without extension", input: upload{FileName: "cv", ContentType: "application/msword"}, valid: true},
		{name: "image", input: upload{FileName: "cv.png", ContentType: "image/png"}, valid: false},
		{name: "missing", input: upload{}, valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.input)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var verrs Errors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, "Only PDF or Word documents are allowed", verrs["resume"])
		})
	}
}

type logo struct {
	Name        string `json:"name" validate:"required"`
	FileName    string `json:"logo" validate:"omitempty,image" msg:"Only PNG or JPEG images are allowed"`
	ContentType string `json:"-"`
}

func TestImageRule(t *testing.T) {
	assert.NoError(t, Struct(&logo{Name: "Acme"}))
	assert.NoError(t, Struct(&logo{Name: "Acme", FileName: "acme.jpeg"}))
	assert.NoError(t, Struct(&logo{Name: "Acme", FileName: "blob", ContentType: "image/png"}))

	err := Struct(&logo{Name: "Acme", FileName: "acme.gif", ContentType: "image/gif"})
	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Only PNG or JPEG images are allowed", verrs["logo"])
}
