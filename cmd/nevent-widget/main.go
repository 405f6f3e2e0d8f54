// Command nevent-widget previews a widget from the terminal: it renders the
// widget into a blank host page and prints the HTML, or fills the form
// interactively and prints the submission payload. Field schemas come from
// flags, a config endpoint, or an OpenAPI document.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nevent-io/go-widget/pkg/chatbot"
	"github.com/nevent-io/go-widget/pkg/config"
	"github.com/nevent-io/go-widget/pkg/dom"
	"github.com/nevent-io/go-widget/pkg/form"
	"github.com/nevent-io/go-widget/pkg/schema"
	"github.com/nevent-io/go-widget/pkg/schema/openapi"
	"github.com/nevent-io/go-widget/pkg/tui"
	"github.com/nevent-io/go-widget/pkg/widget"
)

const blankHost = `<!doctype html><html><head></head><body><div id="widget"></div></body></html>`

func main() {
	widgetID := flag.String("widget", "preview", "widget id")
	tenantID := flag.String("tenant", "preview", "tenant id")
	apiURL := flag.String("api", config.DefaultAPIURL, "API base URL")
	locale := flag.String("locale", "en", "widget locale")
	variant := flag.String("variant", "subscribe", "widget variant: subscribe or chat")
	openapiDoc := flag.String("openapi", "", "OpenAPI document path or URL; fields derive from its subscribe operation")
	operationID := flag.String("operation", "", "OpenAPI operation id (first POST body when empty)")
	interactive := flag.Bool("interactive", false, "fill the form interactively and print the payload")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	cfg := config.Config{
		WidgetID:    *widgetID,
		TenantID:    *tenantID,
		APIURL:      strings.TrimRight(*apiURL, "/"),
		ContainerID: "widget",
		Locale:      *locale,
	}

	fields, err := loadFields(ctx, *openapiDoc, *operationID)
	if err != nil {
		log.Fatalf("load fields: %v", err)
	}
	cfg.Fields = fields

	if *interactive {
		if err := runInteractive(ctx, cfg); err != nil {
			log.Fatalf("interactive fill: %v", err)
		}
		return
	}

	html, err := renderPreview(ctx, cfg, *variant)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, []byte(html), 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Widget written to %s\n", *output)
		return
	}
	fmt.Println(html)
}

func loadFields(ctx context.Context, location, operationID string) ([]schema.FieldConfiguration, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}

	var src schema.Source
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		var err error
		if src, err = schema.SourceFromURL(location); err != nil {
			return nil, err
		}
	} else {
		src = schema.SourceFromFile(location)
	}

	doc, err := openapi.LoadDocument(ctx, src)
	if err != nil {
		return nil, err
	}
	return openapi.FieldsFromDocument(ctx, doc, openapi.Options{OperationID: operationID})
}

func renderPreview(ctx context.Context, cfg config.Config, variant string) (string, error) {
	doc, err := dom.ParseString(blankHost)
	if err != nil {
		return "", err
	}

	switch variant {
	case "chat":
		bot, err := chatbot.New(doc, cfg)
		if err != nil {
			return "", err
		}
		if err := bot.Init(ctx); err != nil {
			return "", err
		}
		return bot.HTML()
	default:
		w, err := widget.New(doc, cfg)
		if err != nil {
			return "", err
		}
		// Preview runs without a backend; a failed config load falls back
		// to local defaults, which is exactly what we want here.
		if err := w.Init(ctx); err != nil {
			return "", err
		}
		return w.HTML()
	}
}

func runInteractive(ctx context.Context, cfg config.Config) error {
	resolved := config.Resolve(cfg)
	engine := form.New(&resolved, nil)
	if err := engine.Build(dom.Element("div")); err != nil {
		return err
	}

	driver := tui.NewSurveyDriver()
	if err := tui.Fill(ctx, driver, engine); err != nil {
		return err
	}

	payload := map[string]any{
		"widgetId": resolved.WidgetID,
		"values":   engine.Values(),
		"consent":  engine.Consent(),
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return driver.Info(ctx, string(encoded))
}
