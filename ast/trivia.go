package ast

// Comment represents a ";" comment. Indented comments belong to the
// transaction or posting above them; top-level comments belong to the journal.
type Comment struct {
	Pos     Position
	Content string // Comment text without the semicolon prefix
}

func (c *Comment) Position() Position { return c.Pos }
