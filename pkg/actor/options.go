package actor

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeOptions decodes raw actor options into out (a pointer to a config struct).
// Strings are converted to numbers, booleans and durations where needed, so option values
// produced by variable expansion decode into typed fields. Unknown keys are an error.
func DecodeOptions(opts map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
