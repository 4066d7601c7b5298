package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/pizzablog/internal/model"
)

type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

func scanPost(scanner interface{ Scan(...any) error }) (*model.Post, error) {
	var p model.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Author, &p.Content,
		&p.Ingredients, &p.Instructions, &p.ImagePath, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const postCols = `id, title, author, content, ingredients, instructions, image_path, created_at`

// Create inserts a post and returns the stored row. The store performs no
// field validation; the handler decides what is required.
func (s *PostStore) Create(title, author, content, ingredients, instructions, imagePath string) (*model.Post, error) {
	result, err := s.db.Exec(
		`INSERT INTO posts (title, author, content, ingredients, instructions, image_path)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, author, content, ingredients, instructions, imagePath,
	)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PostStore) GetByID(id int64) (*model.Post, error) {
	row := s.db.QueryRow(`SELECT `+postCols+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// List returns every post, newest first.
func (s *PostStore) List() ([]model.Post, error) {
	rows, err := s.db.Query(`SELECT ` + postCols + ` FROM posts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ListByAuthor returns posts whose author string exactly equals email, newest
// first. No case folding: author is a denormalized display string, and the only
// write path stores the session's already-normalized email.
func (s *PostStore) ListByAuthor(email string) ([]model.Post, error) {
	rows, err := s.db.Query(
		`SELECT `+postCols+` FROM posts WHERE author = ? ORDER BY id DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
