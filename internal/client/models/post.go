package models

// Post is a bulletin board message. AuthorID and AuthorName are copied
// from the author at creation time.
type Post struct {
	ID         string `json:"post_id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	AuthorID   string `json:"user_id"`
	AuthorName string `json:"username"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// PostCreate is the body of POST /posts/.
type PostCreate struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// PostUpdate is the body of PUT /posts/{id}. Nil fields are left unchanged.
type PostUpdate struct {
	Title   *string `json:"title,omitempty"`
	Message *string `json:"message,omitempty"`
}
