package database

import (
	"database/sql"
	"fmt"
)

type seedPost struct {
	title        string
	author       string
	content      string
	ingredients  string
	instructions string
	imagePath    string
}

// Demo recipes shown on a fresh install. Inserted only when the posts table is
// empty, so user content is never mixed with or duplicated by the seed.
var demoPosts = []seedPost{
	{
		"Margherita", "Admin", "Classic Margherita",
		"Tomatoes\nMozzarella\nBasil",
		"1. Prepare dough\n2. Add sauce\n3. Bake",
		"uploads/margherita.png",
	},
	{
		"Pepperoni", "Admin", "Pepperoni Pizza",
		"Pepperoni\nMozzarella\nSauce",
		"1. Prepare dough\n2. Add toppings\n3. Bake",
		"uploads/pepperoni.png",
	},
	{
		"BBQ Chicken", "Admin", "BBQ Chicken Pizza",
		"Chicken\nBBQ Sauce\nOnion",
		"1. Toss chicken\n2. Bake",
		"uploads/bbq_chicken.png",
	},
	{
		"Hawaiian", "Admin", "Hawaiian Pizza",
		"Pineapple\nHam\nMozzarella",
		"1. Add toppings\n2. Bake",
		"uploads/hawaiian.png",
	},
	{
		"Veggie Supreme", "Admin", "Veggie Pizza",
		"Peppers\nOlives\nMushrooms",
		"1. Prep veggies\n2. Bake",
		"uploads/veggie.png",
	},
	{
		"Meat Lovers", "Admin", "Meat Lovers Pizza",
		"Salami\nHam\nBacon\nSausage",
		"1. Add meats\n2. Bake",
		"uploads/meat_lovers.png",
	},
}

func seedPosts(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range demoPosts {
		_, err := db.Exec(
			`INSERT INTO posts (title, author, content, ingredients, instructions, image_path)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.title, p.author, p.content, p.ingredients, p.instructions, p.imagePath,
		)
		if err != nil {
			return fmt.Errorf("insert seed post %q: %w", p.title, err)
		}
	}
	return nil
}
