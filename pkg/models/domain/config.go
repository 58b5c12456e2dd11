package domain

import "fmt"

// BoardProfile holds the credentials and sales boards of one board API account.
type BoardProfile struct {
	Name        string
	APIURL      string
	APIKey      string
	SalesBoards []Board
}

type Board struct {
	Name string
	ID   string
}

func (b Board) String() string {
	return fmt.Sprintf("%s:%s", b.Name, b.ID)
}
