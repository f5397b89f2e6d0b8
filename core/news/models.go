package news

import (
	"github.com/trezcool/presensi/core"
)

type News struct {
	ID          core.ID `json:"id,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"` // url of the uploaded image
	Category    string  `json:"category,omitempty"`
	SchoolID    core.ID `json:"schoolId,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

func (n News) Key() core.ID { return n.ID }

func (n News) School() core.ID { return n.SchoolID }

// Post is the multipart payload of both add and update.
// The text fields are always submitted, empty ones included; Image is optional.
type Post struct {
	Title       string
	Description string
	Category    string
	Image       *core.File
}

func (p Post) form() *core.Form {
	form := core.NewForm().
		Set("title", core.CleanString(p.Title)).
		Set("description", p.Description).
		Set("category", core.CleanString(p.Category))
	if p.Image != nil && p.Image.Content != nil {
		img := *p.Image
		img.Field = "image"
		form.Attach(img)
	}
	return form
}
