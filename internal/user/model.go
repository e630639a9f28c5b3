package user

import "time"

type Role string

const (
	RoleClient   Role = "client"
	RoleOperator Role = "operator"
)

type User struct {
	ID        int
	Email     string
	Password  string
	Role      Role
	CreatedAt time.Time
}
