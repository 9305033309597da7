// draft writes a suggested letter body using Google Gemini.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/genai"
	"k8s.io/klog/v2"

	"github.com/tstromberg/keepsake/pkg/keepsake"
)

var (
	partner = flag.String("partner", "", "Who the letter is for")
	sender  = flag.String("sender", "", "Who the letter is from")
	since   = flag.String("since", "", "Relationship start date as YYYY-MM-DD")
	hint    = flag.String("hint", "", "A detail to work into the letter")
	model   = flag.String("model", keepsake.DraftModel, "Gemini model to draft with")
	out     = flag.String("out", "", "File to write the draft to (default: stdout)")
	force   = flag.Bool("f", false, "overwrite an existing --out file")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		klog.V(1).Infof("no .env file found, using environment variables")
	}

	key := os.Getenv("GOOGLE_AI_API_KEY")
	if key == "" {
		klog.Exitf("GOOGLE_AI_API_KEY is not set")
	}

	if *out != "" && !*force {
		if _, err := os.Stat(*out); err == nil {
			klog.Exitf("%s exists; use -f to overwrite", *out)
		}
	}

	t, err := keepsake.ParseDate(*since)
	if err != nil {
		klog.Exitf("--since: %v", err)
	}
	l := keepsake.Letter{Partner: *partner, Sender: *sender, Since: t}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key})
	if err != nil {
		klog.Exitf("genai client: %v", err)
	}

	klog.Infof("drafting a letter for %q with %s ...", l.Partner, *model)
	body, err := keepsake.Draft(ctx, client, *model, l, time.Now(), *hint)
	if err != nil {
		klog.Exitf("draft failed: %v", err)
	}

	if *out == "" {
		fmt.Println(body)
		return
	}
	if err := os.WriteFile(*out, []byte(body+"\n"), 0o644); err != nil {
		klog.Exitf("write %s: %v", *out, err)
	}
	klog.Infof("wrote draft to %s", *out)
}
