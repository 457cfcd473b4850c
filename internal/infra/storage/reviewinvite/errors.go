package reviewinvite

import "errors"

var (
	// ErrInviteNotFound возвращается, когда приглашение не найдено
	ErrInviteNotFound = errors.New("reviewinvite.repository: invitation not found")

	// ErrInviteAlreadyExists возвращается при повторном создании приглашения для записи
	ErrInviteAlreadyExists = errors.New("reviewinvite.repository: invitation already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reviewinvite.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reviewinvite.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reviewinvite.repository: failed to scan row")
)
