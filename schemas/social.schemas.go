package schemas

// ProfileResponse is the public view of a member row.
type ProfileResponse struct {
	MemberID     int    `json:"memberid"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Verification int    `json:"verification"`
}

// SearchResponse is the GET /search/:email body.
type SearchResponse struct {
	FirstName string `json:"firstname" db:"firstname"`
	LastName  string `json:"lastname" db:"lastname"`
	Username  string `json:"username" db:"username"`
}

// ContactSchema identifies the other member of a friend operation.
type ContactSchema struct {
	MemberID int `json:"memberid" validate:"required"`
}

// FriendRow is one accepted contact in the friends list.
type FriendRow struct {
	MemberID  int    `json:"memberid" db:"memberid"`
	FirstName string `json:"firstname" db:"firstname"`
	LastName  string `json:"lastname" db:"lastname"`
	Username  string `json:"username" db:"username"`
	Email     string `json:"email" db:"email"`
}

// FriendsListResponse is the GET /friendsList body.
type FriendsListResponse struct {
	RowCount int         `json:"rowCount"`
	Rows     []FriendRow `json:"rows"`
}
