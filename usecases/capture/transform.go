package capture

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"

	"github.com/hookwise/hookwise-backend/models"
)

// SubmitPath is the fixed local route every decoy form posts to. The injected
// script only lets network calls through to this path.
const SubmitPath = "/submit"

// Transformer rewrites snapshots in place into inert decoys: forms post the
// boolean event to the local submit path, external links and scripts are
// neutralized, and the stripping script is appended to the body.
type Transformer struct{}

func (Transformer) TransformSnapshot(snapshotPath string, learningUrl string) error {
	raw, err := os.ReadFile(snapshotPath)
	if err != nil {
		return errors.Wrap(models.CaptureError, err.Error())
	}

	transformed, err := TransformHtml(raw, learningUrl)
	if err != nil {
		return err
	}

	return errors.Wrap(os.WriteFile(snapshotPath, transformed, 0o644), "error writing transformed snapshot")
}

func TransformHtml(raw []byte, learningUrl string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(models.CaptureError, "snapshot is not parseable html: %v", err)
	}

	var body *html.Node
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		for child := node.FirstChild; child != nil; {
			// The child may be detached below, keep the cursor safe.
			next := child.NextSibling
			if child.Type == html.ElementNode {
				switch child.Data {
				case "body":
					body = child
				case "form":
					rewriteForm(child)
				case "a":
					neutralizeLink(child)
				case "script":
					if hasAttr(child, "src") {
						node.RemoveChild(child)
						child = next
						continue
					}
				}
			}
			walk(child)
			child = next
		}
	}
	walk(doc)

	script := &html.Node{
		Type: html.ElementNode,
		Data: "script",
	}
	script.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: strippingScript(learningUrl),
	})
	if body != nil {
		body.AppendChild(script)
	} else {
		doc.AppendChild(script)
	}

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, errors.Wrap(err, "error rendering transformed snapshot")
	}
	return out.Bytes(), nil
}

// rewriteForm points the form at the local submit path and strips any inline
// submit handler so only the injected capture phase handler governs submission.
func rewriteForm(node *html.Node) {
	attrs := make([]html.Attribute, 0, len(node.Attr)+2)
	for _, attr := range node.Attr {
		switch strings.ToLower(attr.Key) {
		case "action", "method", "onsubmit":
			continue
		}
		attrs = append(attrs, attr)
	}
	attrs = append(attrs,
		html.Attribute{Key: "action", Val: SubmitPath},
		html.Attribute{Key: "method", Val: "POST"},
	)
	node.Attr = attrs
}

// neutralizeLink keeps navigation inside the decoy: external hrefs become
// no-op targets with the click suppressed.
func neutralizeLink(node *html.Node) {
	href, ok := attrValue(node, "href")
	if !ok || !isExternalUrl(href) {
		return
	}
	attrs := make([]html.Attribute, 0, len(node.Attr)+1)
	for _, attr := range node.Attr {
		switch strings.ToLower(attr.Key) {
		case "href", "target", "onclick":
			continue
		}
		attrs = append(attrs, attr)
	}
	attrs = append(attrs,
		html.Attribute{Key: "href", Val: "#"},
		html.Attribute{Key: "onclick", Val: "return false"},
	)
	node.Attr = attrs
}

func isExternalUrl(href string) bool {
	href = strings.TrimSpace(strings.ToLower(href))
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//")
}

func hasAttr(node *html.Node, key string) bool {
	_, ok := attrValue(node, key)
	return ok
}

func attrValue(node *html.Node, key string) (string, bool) {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}
