package models

// CipheredPayload is a string alias representing encrypted content.
// The actual structure and meaning of the data are unknown to the database.
type CipheredPayload string
