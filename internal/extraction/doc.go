// Package extraction finds facts in statement texts by matching pattern
// templates against the dependency trees of their sentences.
//
// # Search order
//
// Facts are organised in groups (for example "Bank_Rate" and "QE"). Each
// group is searched independently:
//   - Sentences are visited in document order.
//   - Within a sentence the group's templates are tried in priority order;
//     the first template that fully matches ends the search of that sentence,
//     even when it marks nothing for extraction.
//   - The first sentence whose full match yields at least one value decides
//     the group. Its first value becomes the group's fact.
//
// A group with no such sentence reports an empty value.
//
// # Usage
//
//	analyzer, err := extraction.NewAnalyzer(p, groups, extraction.DefaultConfig(),
//	    extraction.WithLogger(logger),
//	)
//	rec, err := analyzer.Analyze(ctx, "The Bank Rate is 0.5 %.")
//	v, _ := rec.Value("Bank_Rate") // "0.5 %"
//
// AnalyzeBatch analyzes several texts on a bounded worker pool and returns
// the records in input order.
//
// # Records
//
// A Record serializes as an object whose first key is "news" (the
// normalized text) followed by one key per group in configured order.
package extraction
