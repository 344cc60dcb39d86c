// check-models validates classifier artifacts and runs offline predictions.
//
// Usage:
//
//	check-models verify --model-dir models
//	check-models predict --age 7 --responses 1,0,1,1,0,0,1,0,1,1
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/asdscreen/asd-screening-api/internal/classifier"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/questionnaire"
	"github.com/asdscreen/asd-screening-api/internal/services"
)

func main() {
	app := &cli.App{
		Name:  "check-models",
		Usage: "Validate screening model artifacts and run offline predictions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model-dir",
				Value:   "models",
				Usage:   "Directory holding <band>_model.json and <band>_scaler.json",
				EnvVars: []string{"MODEL_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			verifyCommand(),
			predictCommand(),
			questionsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Load every band's artifacts and report their paths",
		Action: func(c *cli.Context) error {
			dir := c.String("model-dir")
			registry, err := classifier.LoadRegistry(dir)
			if err != nil {
				return err
			}
			for _, band := range registry.Bands() {
				fmt.Printf("%-13s model=%s scaler=%s\n", band, classifier.ModelPath(dir, band), classifier.ScalerPath(dir, band))
			}
			fmt.Printf("OK: %d bands loaded from %s\n", len(registry.Bands()), dir)
			return nil
		},
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Run one prediction without touching the database",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "age",
				Usage:    "Subject age in years",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "responses",
				Aliases:  []string{"r"},
				Usage:    "Comma separated answers A1..A10",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			log, err := logger.New(c.String("log-level"), "console")
			if err != nil {
				return err
			}

			registry, err := classifier.LoadRegistry(c.String("model-dir"))
			if err != nil {
				return err
			}

			var responses []interface{}
			for _, part := range strings.Split(c.String("responses"), ",") {
				responses = append(responses, strings.TrimSpace(part))
			}

			svc := services.NewPredictionService(registry, nil, log)
			result, err := svc.Predict(c.Int("age"), responses)
			if err != nil {
				return err
			}

			prediction := 0
			if result.Outcome {
				prediction = 1
			}
			if c.Bool("json") {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"prediction": prediction,
					"age_group":  result.AgeGroup,
				})
			}
			fmt.Printf("age_group=%s prediction=%d\n", result.AgeGroup, prediction)
			return nil
		},
	}
}

func questionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "questions",
		Usage: "Print the question set served for an age",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "age",
				Usage:    "Subject age in years",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			band, questions := questionnaire.ForAge(c.Int("age"))
			fmt.Printf("Age group: %s\n", band)
			for i, q := range questions {
				fmt.Printf("%2d. %s\n", i+1, q)
			}
			return nil
		},
	}
}
