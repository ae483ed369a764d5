package extraction

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/factd/internal/parser"
	"github.com/fyrsmithlabs/factd/internal/parsetree"
	"github.com/fyrsmithlabs/factd/internal/pattern"
)

// "The Bank Rate is 0.5 %"
func bankRateIs() *parsetree.Tree {
	return parsetree.MustFromTokens([]parsetree.Token{
		{ID: 0, Head: 2, Text: "The", Lemma: "the", POS: "DET", Dep: "det"},
		{ID: 1, Head: 2, Text: "Bank", Lemma: "bank", POS: "PROPN", Dep: "compound"},
		{ID: 2, Head: 3, Text: "Rate", Lemma: "rate", POS: "PROPN", Dep: "nsubj"},
		{ID: 3, Head: 3, Text: "is", Lemma: "be", POS: "VERB", Dep: "ROOT"},
		{ID: 4, Head: 3, Text: "0.5 %", Lemma: "0.5 %", POS: "NOUN", Dep: "attr"},
	})
}

// "Bank Rate maintained at <rate>"
func bankRateMaintained(rate string) *parsetree.Tree {
	return parsetree.MustFromTokens([]parsetree.Token{
		{ID: 0, Head: 1, Text: "Bank", Lemma: "bank", POS: "PROPN", Dep: "compound"},
		{ID: 1, Head: 2, Text: "Rate", Lemma: "rate", POS: "PROPN", Dep: "nsubj"},
		{ID: 2, Head: 2, Text: "maintained", Lemma: "maintain", POS: "VERB", Dep: "ROOT"},
		{ID: 3, Head: 2, Text: "at", Lemma: "at", POS: "ADP", Dep: "prep"},
		{ID: 4, Head: 3, Text: rate, Lemma: rate, POS: "NOUN", Dep: "pobj"},
	})
}

// "Purchases are maintained at £ 375 billion"
func purchasesMaintained() *parsetree.Tree {
	return parsetree.MustFromTokens([]parsetree.Token{
		{ID: 0, Head: 2, Text: "Purchases", Lemma: "purchase", POS: "NOUN", Dep: "nsubjpass"},
		{ID: 1, Head: 2, Text: "are", Lemma: "be", POS: "AUX", Dep: "auxpass"},
		{ID: 2, Head: 2, Text: "maintained", Lemma: "maintain", POS: "VERB", Dep: "ROOT"},
		{ID: 3, Head: 2, Text: "at", Lemma: "at", POS: "ADP", Dep: "prep"},
		{ID: 4, Head: 3, Text: "£ 375 billion", Lemma: "£ 375 billion", POS: "NUM", Dep: "pobj"},
	})
}

// "Inflation is 2 %"
func inflationIs() *parsetree.Tree {
	return parsetree.MustFromTokens([]parsetree.Token{
		{ID: 0, Head: 1, Text: "Inflation", Lemma: "inflation", POS: "NOUN", Dep: "nsubj"},
		{ID: 1, Head: 1, Text: "is", Lemma: "be", POS: "VERB", Dep: "ROOT"},
		{ID: 2, Head: 1, Text: "2 %", Lemma: "2 %", POS: "NOUN", Dep: "attr"},
	})
}

// "Markets rallied"
func noVerbOfInterest() *parsetree.Tree {
	return parsetree.MustFromTokens([]parsetree.Token{
		{ID: 0, Head: 1, Text: "Markets", Lemma: "market", POS: "NOUN", Dep: "nsubj"},
		{ID: 1, Head: 1, Text: "rallied", Lemma: "rally", POS: "VERB", Dep: "ROOT"},
	})
}

func bankRateGroup() *pattern.Group {
	g, err := pattern.BuildGroup("Bank_Rate", []pattern.TemplateDefinition{
		{Name: "rate-is", Nodes: []pattern.Definition{
			{Label: "verb", Validator: pattern.ValidatorSpec{Lemma: []string{"be"}, POS: []string{"verb"}}, Children: []string{"subject", "value"}},
			{Label: "subject", Validator: pattern.ValidatorSpec{Lemma: []string{"rate"}}, GoodSubtreeTokens: []string{"bank"}},
			{Label: "value", Validator: pattern.ValidatorSpec{Dep: []string{"attr"}}, Extract: true},
		}},
		{Name: "rate-maintained", Nodes: []pattern.Definition{
			{Label: "verb", Validator: pattern.ValidatorSpec{Lemma: []string{"maintain"}}, Children: []string{"subject", "value"}},
			{Label: "subject", Validator: pattern.ValidatorSpec{Lemma: []string{"rate"}}, GoodSubtreeTokens: []string{"bank"}},
			{Label: "value", Validator: pattern.ValidatorSpec{Dep: []string{"pobj"}}, Extract: true},
		}},
	})
	if err != nil {
		panic(err)
	}
	return g
}

func qeGroup() *pattern.Group {
	g, err := pattern.BuildGroup("QE", []pattern.TemplateDefinition{
		{Name: "purchases-maintained", Nodes: []pattern.Definition{
			{Label: "verb", Validator: pattern.ValidatorSpec{Lemma: []string{"maintain"}}, Children: []string{"asset", "amount"}},
			{Label: "asset", Validator: pattern.ValidatorSpec{Lemma: []string{"purchase"}}},
			{Label: "amount", Validator: pattern.ValidatorSpec{POS: []string{"num"}}, Extract: true},
		}},
	})
	if err != nil {
		panic(err)
	}
	return g
}

// docParser returns the document registered for the exact normalized text.
type docParser map[string]parsetree.Document

func (p docParser) Parse(ctx context.Context, text string) (parsetree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, ok := p[text]
	if !ok {
		return nil, fmt.Errorf("no parse for %q", text)
	}
	return doc, nil
}

var _ parser.Parser = docParser(nil)
