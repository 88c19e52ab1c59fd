// internal/browser/session/scripts.go
package session

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// boundingBoxScript reports the viewport box of the first element matching
// the selector, or null when nothing matches or it has no layout boxes.
const boundingBoxScript = `(selector) => {
	const el = document.querySelector(selector);
	if (!el || el.getClientRects().length === 0) {
		return null;
	}
	const r = el.getBoundingClientRect();
	return { x: r.x, y: r.y, width: r.width, height: r.height };
}`

// elementCenterScript scrolls the element into view and reports its center,
// or null when nothing matches.
const elementCenterScript = `(selector) => {
	const el = document.querySelector(selector);
	if (!el) {
		return null;
	}
	el.scrollIntoView({ block: 'center', inline: 'center' });
	const r = el.getBoundingClientRect();
	return { x: r.x + r.width / 2, y: r.y + r.height / 2 };
}`

// point is the decoded form of elementCenterScript's result.
type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// jsonEncode is a helper to safely encode a value (especially strings) for JS injection.
func jsonEncode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode script argument: %w", err)
	}
	return string(b), nil
}

// buildExpression turns a function expression and its arguments into a
// single call expression, e.g. "((sel) => ...)(\"#id\")".
func buildExpression(script string, args []interface{}) (string, error) {
	encoded := make([]string, 0, len(args))
	for _, arg := range args {
		s, err := jsonEncode(arg)
		if err != nil {
			return "", err
		}
		encoded = append(encoded, s)
	}
	return fmt.Sprintf("(%s)(%s)", script, strings.Join(encoded, ", ")), nil
}

// isAbsent reports whether an Evaluate result carries no value.
func isAbsent(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "undefined"
}

// flagPair splits a command line switch such as "--lang=en-US" into its
// name and value. A bare switch yields an empty value.
func flagPair(arg string) (name, value string) {
	arg = strings.TrimLeft(arg, "-")
	name, value, _ = strings.Cut(arg, "=")
	return name, value
}

// evaluator is the part of a surface the shared element helpers need.
type evaluator interface {
	Evaluate(ctx context.Context, script string, args ...interface{}) (stdjson.RawMessage, error)
}

func locateBoundingBox(ctx context.Context, e evaluator, selector string) (*schemas.BoundingBox, error) {
	raw, err := e.Evaluate(ctx, boundingBoxScript, selector)
	if err != nil {
		return nil, err
	}
	if isAbsent(raw) {
		return nil, nil
	}
	var box schemas.BoundingBox
	if err := json.Unmarshal(raw, &box); err != nil {
		return nil, fmt.Errorf("failed to decode bounding box for %q: %w", selector, err)
	}
	return &box, nil
}

func elementCenter(ctx context.Context, e evaluator, selector string) (point, error) {
	raw, err := e.Evaluate(ctx, elementCenterScript, selector)
	if err != nil {
		return point{}, err
	}
	if isAbsent(raw) {
		return point{}, fmt.Errorf("no element matches %q", selector)
	}
	var p point
	if err := json.Unmarshal(raw, &p); err != nil {
		return point{}, fmt.Errorf("failed to decode element center for %q: %w", selector, err)
	}
	return p, nil
}
