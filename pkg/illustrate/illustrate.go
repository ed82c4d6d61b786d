// Package illustrate turns generated myths and personas into image requests.
package illustrate

import (
	"context"

	"github.com/charmbracelet/log"

	"parsverse/pkg/config"
	"parsverse/pkg/imagegen"
	"parsverse/pkg/prompt"
	"parsverse/pkg/schema"
)

type Composer struct {
	images imagegen.Generator
	size   string
	style  string
}

func New(cfg config.Config, images imagegen.Generator) *Composer {
	if images == nil {
		images = imagegen.Disabled{}
	}
	return &Composer{images: images, size: cfg.Image.Size, style: cfg.Image.Style}
}

// Backend describes the active image provider, for display.
func (c *Composer) Backend() imagegen.Backend {
	return c.images.Backend()
}

func (c *Composer) FromMyth(text string, req schema.MythRequest) prompt.Image {
	return c.styled(prompt.ImageFromMyth(text, req))
}

func (c *Composer) FromPersona(p schema.Persona, req schema.PersonaRequest) prompt.Image {
	return c.styled(prompt.ImageFromPersona(p, req))
}

func (c *Composer) styled(img prompt.Image) prompt.Image {
	if c.style != "" {
		img.Prompt += "\nRendering style: " + c.style + "."
	}
	return img
}

// Render requests the image and returns it as WebP, or nil when no image is
// available.
func (c *Composer) Render(ctx context.Context, img prompt.Image) []byte {
	if !c.images.Backend().Enabled {
		return nil
	}
	data := c.images.Generate(ctx, img.Prompt, img.Negative, c.size)
	if len(data) == 0 {
		return nil
	}
	webp, err := imagegen.ToWebP(data)
	if err != nil {
		log.Warn("could not convert image to webp", "error", err, "bytes", len(data))
		return nil
	}
	return webp
}
