// Package stats summarizes the documents that pass through the form: how much
// markup was supplied and how many style rules went in and came out.
package stats

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// HTMLSummary counts what the reducer sees in the markup.
type HTMLSummary struct {
	Elements int
	Classes  int // distinct class names
	IDs      int
}

// CSSSummary counts the style rules of one stylesheet. Rules nested in
// at-rules such as @media are counted individually; the at-rule itself is
// not.
type CSSSummary struct {
	Rules     int
	Selectors int
	Bytes     int
}

// SummarizeHTML parses src as an HTML document or fragment. Elements are
// counted under <body> and <head>, excluding the wrappers the parser adds.
func SummarizeHTML(src string) (HTMLSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return HTMLSummary{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var s HTMLSummary
	s.Elements = doc.Find("head *, body *").Length()
	s.IDs = doc.Find("[id]").Length()

	classes := make(map[string]struct{})
	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		attr, _ := sel.Attr("class")
		for _, name := range strings.Fields(attr) {
			classes[name] = struct{}{}
		}
	})
	s.Classes = len(classes)
	return s, nil
}

// SummarizeCSS parses src and counts its rules.
func SummarizeCSS(src string) (CSSSummary, error) {
	s := CSSSummary{Bytes: len(src)}
	if strings.TrimSpace(src) == "" {
		return s, nil
	}
	sheet, err := parser.Parse(src)
	if err != nil {
		return s, fmt.Errorf("failed to parse CSS: %w", err)
	}
	countRules(sheet.Rules, &s)
	return s, nil
}

func countRules(rules []*css.Rule, s *CSSSummary) {
	for _, r := range rules {
		if r.Kind == css.AtRule {
			countRules(r.Rules, s)
			continue
		}
		s.Rules++
		s.Selectors += len(r.Selectors)
	}
}

// Report pairs the input summaries with the output summary of the last
// successful reduction.
type Report struct {
	HTML   HTMLSummary
	Input  CSSSummary
	Output CSSSummary

	// HasOutput is false until a reduction has produced output.
	HasOutput bool
}

// Build summarizes html, css and output. Parse problems in any document are
// returned together with whatever could be counted.
func Build(html, inputCSS, output string, hasOutput bool) (Report, error) {
	var r Report
	var errs []string

	var err error
	if r.HTML, err = SummarizeHTML(html); err != nil {
		errs = append(errs, err.Error())
	}
	if r.Input, err = SummarizeCSS(inputCSS); err != nil {
		errs = append(errs, err.Error())
	}
	if hasOutput {
		r.HasOutput = true
		if r.Output, err = SummarizeCSS(output); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return r, fmt.Errorf("stats: %s", strings.Join(errs, "; "))
	}
	return r, nil
}

// Savings returns the share of input bytes removed by the reduction, in
// percent. It is zero when there is no output or no input.
func (r Report) Savings() float64 {
	if !r.HasOutput || r.Input.Bytes == 0 {
		return 0
	}
	return 100 * float64(r.Input.Bytes-r.Output.Bytes) / float64(r.Input.Bytes)
}

// String renders the report for a status bar, e.g.
// "12 elements · 4 classes · rules 12 → 3 (-75%)".
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d elements · %d classes · rules %d", r.HTML.Elements, r.HTML.Classes, r.Input.Rules)
	if r.HasOutput {
		fmt.Fprintf(&b, " → %d (-%.0f%%)", r.Output.Rules, r.Savings())
	}
	return b.String()
}
