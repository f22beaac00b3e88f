package authRepository

const (
	userColumns = `id, email, name, password, google_id, created_at, updated_at`

	queryCreateUser = `
INSERT INTO users (id, email, name, password, google_id, created_at, updated_at)
VALUES (:id, :email, :name, :password, :google_id, :created_at, :updated_at)`

	queryGetByID = `
SELECT ` + userColumns + `
FROM users
    WHERE id = :id`

	queryGetByEmail = `
SELECT ` + userColumns + `
FROM users
    WHERE email = :email`

	queryGetByGoogleID = `
SELECT ` + userColumns + `
FROM users
    WHERE google_id = :google_id`

	queryLinkGoogleID = `
UPDATE users
SET google_id = :google_id,
    updated_at = :updated_at
WHERE id = :id`
)
