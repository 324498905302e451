/*
Package flowbench is a token-passing dataflow engine built around a small actor contract.

A flow is a graph of actors. Sources emit tokens, transformers turn each input token
into zero or more output tokens, and sinks consume them. Standalone actors take part
in the lifecycle without touching tokens, for example to open a database or to
assign variables. Every actor goes through the same lifecycle:

	Configure -> SetUp -> (Input -> Execute -> Output*)* -> WrapUp

The engine drives the lifecycle depth-first: every token an actor emits is pushed
through the whole downstream graph before the actor is asked for the next one.

# Variables

Actor options may reference flow variables with "@{name}" (or "@{env.NAME}" for the
process environment). When a variable changes during a run, every actor that
references it is reconfigured before its next activation while its pending input,
queue and internal counters are preserved.

# Errors

Configuration problems surface before any token moves. Activation errors are
contained by default: the failing token is dropped and the run goes on. An actor
flagged stop_flow_on_error, or a flow with error_policy "always-stop", aborts the
run instead.

# Usage

	eng, err := flowbench.New("./flows")
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.RunFlow(context.Background(), "hello", map[string]string{"mode": "upper"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Payloads())

Flows are YAML (or JSON) files:

	name: hello
	variables:
	  mode: lower
	actors:
	  - name: words
	    type: StringConstants
	    options:
	      strings: ["Hello", "World"]
	  - name: convert
	    type: Convert
	    options:
	      mode: "@{mode}"
	  - name: show
	    type: Display
*/
package flowbench
