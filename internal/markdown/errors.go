package markdown

import "fmt"

func errUnsupported(v any) error {
	return fmt.Errorf("markdown: unsupported value of type %T", v)
}
