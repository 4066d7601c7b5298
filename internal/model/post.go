package model

import (
	"strings"
	"time"
)

type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Content      string    `json:"content"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	ImagePath    string    `json:"image_path"`
	CreatedAt    time.Time `json:"created_at"`
}

// IngredientLines splits the newline-delimited ingredients field for rendering.
func (p *Post) IngredientLines() []string {
	return splitLines(p.Ingredients)
}

// InstructionLines splits the newline-delimited instructions field for rendering.
func (p *Post) InstructionLines() []string {
	return splitLines(p.Instructions)
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
