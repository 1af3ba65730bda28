package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/colonyops/feedback/pkg/executil"
)

// CommandProvider runs an external capture tool that writes an image to
// stdout (for example `grim -` or `import -window root png:-`).
type CommandProvider struct {
	exec executil.Executor
	cmd  string
	args []string
}

// NewCommandProvider creates a provider for argv. argv[0] is the program.
func NewCommandProvider(exec executil.Executor, argv []string) (*CommandProvider, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("capture command is empty")
	}
	return &CommandProvider{exec: exec, cmd: argv[0], args: argv[1:]}, nil
}

func (p *CommandProvider) TakeScreenshot(ctx context.Context) (string, error) {
	out, err := p.exec.Output(ctx, p.cmd, p.args...)
	if err != nil {
		return "", fmt.Errorf("run capture command: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("capture command %s produced no output", p.cmd)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return "", fmt.Errorf("decode capture output: %w", err)
	}

	return pngDataURL(img)
}
