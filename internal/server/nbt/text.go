package nbt

// TextComponent builds a styled-text compound with at least a text field.
// An empty color leaves the client default.
func TextComponent(text, color string) *Compound {
	c := NewCompound().Put("text", String(text))
	if color != "" {
		c.Put("color", String(color))
	}
	return c
}
