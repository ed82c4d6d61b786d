package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"parsverse/pkg/generator"
	"parsverse/pkg/lore"
	"parsverse/pkg/prompt"
	"parsverse/pkg/schema"
	"parsverse/pkg/utils"
)

var (
	mythReq    schema.MythRequest
	personaReq schema.PersonaRequest

	illustrateFlag bool
	imageDir       string
	requestPath    string
)

var mythCmd = &cobra.Command{
	Use:   "myth",
	Short: "Generate a short myth",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNarrative(cmd, prompt.TaskMyth)
	},
}

var chronicleCmd = &cobra.Command{
	Use:   "chronicle",
	Short: "Generate a long chronicle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNarrative(cmd, prompt.TaskChronicle)
	},
}

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Generate a second-person persona dossier",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadRequest(requestPath, &personaReq); err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		waiting(cmd.ErrOrStderr())

		res, err := a.generator.Persona(ctx, personaReq)
		if err != nil {
			return err
		}

		switch format {
		case formatJSON:
			fmt.Fprintln(cmd.OutOrStdout(), utils.PrettyJSON(res))
		default:
			fmt.Fprint(cmd.OutOrStdout(), res.Persona.Dossier(personaReq.Name))
		}
		if err := save(res); err != nil {
			return err
		}

		if illustrateFlag {
			img := a.composer.FromPersona(res.Persona, personaReq)
			return render(ctx, a, img, personaReq.Name, res.ID)
		}
		return nil
	},
}

func runNarrative(cmd *cobra.Command, task prompt.Task) error {
	if err := loadRequest(requestPath, &mythReq); err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	waiting(cmd.ErrOrStderr())

	var res generator.Result
	if task == prompt.TaskChronicle {
		res, err = a.generator.Chronicle(ctx, mythReq)
	} else {
		res, err = a.generator.Myth(ctx, mythReq)
	}
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		fmt.Fprintln(cmd.OutOrStdout(), utils.PrettyJSON(res))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	}
	if err := save(res); err != nil {
		return err
	}

	if illustrateFlag {
		img := a.composer.FromMyth(res.Text, mythReq)
		return render(ctx, a, img, mythReq.Name, res.ID)
	}
	return nil
}

// loadRequest replaces *req with the JSON request stored at path, if any.
func loadRequest[T any](path string, req *T) error {
	if path == "" {
		return nil
	}
	v, err := utils.Load[T](path)
	if err != nil {
		return fmt.Errorf("reading request %s: %w", path, err)
	}
	*req = v
	return nil
}

func waiting(w io.Writer) {
	fmt.Fprintf(w, "Did you know? %s\n\n", lore.RandomFact())
}

func save[T any](v T) error {
	if outPath == "" {
		return nil
	}
	if err := utils.Save(outPath, v); err != nil {
		return fmt.Errorf("saving %s: %w", outPath, err)
	}
	log.Info("saved", "path", outPath)
	return nil
}

func render(ctx context.Context, a *app, img prompt.Image, name, id string) error {
	log.Debug("image prompt", "prompt", img.Prompt, "negative", img.Negative)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	data := a.composer.Render(ctx, img)
	if data == nil {
		log.Warn("no image available", "backend", a.composer.Backend())
		return nil
	}

	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return fmt.Errorf("failed to create image dir: %w", err)
	}
	path := filepath.Join(imageDir, utils.SanitizeFilename(name)+"-"+id+".webp")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	log.Info("image saved", "path", path, "bytes", len(data))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{mythCmd, chronicleCmd} {
		f := c.Flags()
		f.StringVarP(&mythReq.Name, "name", "n", "", "Protagonist name")
		f.StringVarP(&mythReq.Region, "region", "r", string(lore.DefaultRegion), "Historical region")
		f.StringVarP(&mythReq.Style, "style", "s", "", "Narrative style: Epic, Mystic, Royal or Poet")
		f.IntVarP(&mythReq.DetailLevel, "detail", "d", 1, "Detail level 1-3")
		f.Float64Var(&mythReq.Strictness, "strictness", 0.5, "Historical strictness 0-1")
		f.StringSliceVar(&mythReq.Themes, "themes", nil, "Comma-separated themes")
	}

	f := personaCmd.Flags()
	f.StringVarP(&personaReq.Name, "name", "n", "", "Persona name")
	f.StringVarP(&personaReq.Region, "region", "r", string(lore.DefaultRegion), "Historical region")
	f.IntVar(&personaReq.Age, "age", schema.DefaultAge, "Age 12-90")
	f.StringVar(&personaReq.Gender, "gender", schema.DefaultGender, "Gender")
	f.StringSliceVar(&personaReq.Traits, "traits", nil, "Comma-separated traits")
	f.StringVar(&personaReq.Hobby, "hobby", "", "Hobby or daily occupation")
	f.StringVarP(&personaReq.Style, "style", "s", "", "Narrative style: Epic, Mystic, Royal or Poet")
	f.IntVarP(&personaReq.DetailLevel, "detail", "d", 1, "Detail level 1-3")

	for _, c := range []*cobra.Command{mythCmd, chronicleCmd, personaCmd} {
		c.Flags().BoolVar(&illustrateFlag, "illustrate", false, "Also render an illustration")
		c.Flags().StringVar(&requestPath, "request", "", "Read the request from a JSON file instead of flags")
		c.Flags().StringVar(&imageDir, "image-dir", filepath.Join("images", "parsverse"), "Directory for rendered illustrations")
		rootCmd.AddCommand(c)
	}
}
