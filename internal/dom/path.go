package dom

import (
	"fmt"
	"strings"
)

func classSuffix(el Element) string {
	classes := strings.Fields(el.ClassName())
	if len(classes) == 0 {
		return ""
	}
	return "." + strings.Join(classes, ".")
}

func siblingIndex(el, parent Element) (index, count int, err error) {
	siblings, err := parent.Children()
	if err != nil {
		return 0, 0, err
	}
	for i, s := range siblings {
		if Same(s, el) {
			index = i + 1
		}
	}
	return index, len(siblings), nil
}

// Path builds a child-combinator selector from below body down to el. An
// element with an id is addressed by the id alone.
func Path(el Element) (string, error) {
	if el == nil {
		return "", nil
	}
	if id := el.ID(); id != "" {
		return "#" + id, nil
	}
	var parts []string
	for cur := el; cur != nil && cur.TagName() != "body"; {
		part := cur.TagName() + classSuffix(cur)
		parent, err := cur.Parent()
		if err != nil {
			return "", fmt.Errorf("failed to walk up from %s: %w", Describe(cur), err)
		}
		if parent != nil {
			idx, n, err := siblingIndex(cur, parent)
			if err != nil {
				return "", err
			}
			if n > 1 {
				part += fmt.Sprintf(":nth-child(%d)", idx)
			}
		}
		parts = append([]string{part}, parts...)
		cur = parent
	}
	return strings.Join(parts, " > "), nil
}

// ShortSelector returns a compact selector for display: the id, the class
// list when it is unique in doc, or parent > tag with a position among
// same-tag siblings.
func ShortSelector(doc Document, el Element) (string, error) {
	if el == nil {
		return "", nil
	}
	if id := el.ID(); id != "" {
		return "#" + id, nil
	}
	if cls := classSuffix(el); cls != "" && doc != nil {
		if matches, err := doc.QueryAll(cls); err == nil && len(matches) == 1 {
			return cls, nil
		}
	}
	tag := el.TagName()
	parent, err := el.Parent()
	if err != nil {
		return "", err
	}
	if parent == nil {
		return tag, nil
	}
	children, err := parent.Children()
	if err != nil {
		return "", err
	}
	var same []Element
	for _, c := range children {
		if c.TagName() == tag {
			same = append(same, c)
		}
	}
	if len(same) == 1 {
		return parent.TagName() + " > " + tag, nil
	}
	idx := 0
	for i, s := range same {
		if Same(s, el) {
			idx = i + 1
		}
	}
	return fmt.Sprintf("%s > %s:nth-child(%d)", parent.TagName(), tag, idx), nil
}
