/*
Package dsl provides a fluent Go builder for flow definitions.

It produces the same domain.FlowSpec a YAML or JSON flow file decodes to, which is
useful for flows generated at runtime, for tests and for IDE autocompletion.

Example usage:

	spec, err := dsl.New("greet").
		Variable("mode", "upper").
		Add("words", "StringConstants").With("strings", []any{"hello", "world"}).Flow().
		Add("shout", "Convert").With("mode", "@{mode}").Flow().
		Add("show", "Display").Flow().
		Build()
	if err != nil {
		return err
	}
	result, err := engine.Run(ctx, spec, nil)

Actors form a linear chain in declaration order unless To is used, in which case the
declared edges are the only connections.
*/
package dsl
