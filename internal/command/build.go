package command

import (
	"fmt"
	"strconv"

	"clipforge/internal/services"
)

// Command is the argument list handed to the engine along with the name of
// the file it will produce.
type Command struct {
	Args       []string
	OutputName string
	MIMEType   string
}

// Build derives the engine command for req reading inputName. It is pure:
// equal inputs give equal argument slices.
func Build(inputName string, req Request) Command {
	output := OutputName(req.OutputBaseName, req.Kind)
	return Command{
		Args: []string{
			"-i", inputName,
			"-ss", formatSeconds(req.StartSeconds),
			"-t", formatSeconds(req.DurationSeconds),
			"-f", req.Kind.Token(),
			output,
		},
		OutputName: output,
		MIMEType:   MIMEType(req.Kind),
	}
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// ValidateOutput rejects a command whose output would replace its input in
// the engine workspace.
func ValidateOutput(inputName string, cmd Command) error {
	if cmd.OutputName == inputName {
		return services.Wrap(services.ErrInput, "command", "validate output",
			fmt.Sprintf("output name %s would overwrite the input; choose another name", cmd.OutputName), nil)
	}
	return nil
}
