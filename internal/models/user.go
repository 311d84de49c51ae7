package models

// Collection and field names for users. They follow the mobile client's
// Portuguese vocabulary so existing documents stay readable.
const (
	UsersCollection = "usuarios"

	FieldEmail    = "email"
	FieldPassword = "senha"
	FieldPhone    = "telefone"
	FieldName     = "nome"
)

// User represents a registered account
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Phone        string
	Name         string
}
