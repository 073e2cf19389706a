package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"testing"

	"attendqr_go/database"
	"attendqr_go/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newNotificationTestApp wires the notification routes over a sqlmock-backed
// gorm connection with an already authenticated user in the request context.
func newNotificationTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	database.DB = db

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &models.User{BaseModel: models.BaseModel{ID: 42}, Role: "student"})
		return c.Next()
	})

	nc := &NotificationController{}
	app.Get("/api/notifications/unread-count", nc.GetUnreadCount)
	app.Delete("/api/notifications/:id", nc.DeleteNotification)
	return app, mock
}

func TestGetUnreadCount(t *testing.T) {
	app, mock := newNotificationTestApp(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications`")).
		WithArgs(uint(42), false).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/notifications/unread-count", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Unread int64 `json:"unread"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Unread != 3 {
		t.Fatalf("unread = %d, want 3", body.Unread)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteNotification(t *testing.T) {
	app, mock := newNotificationTestApp(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/notifications/9", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteNotificationNotOwned(t *testing.T) {
	app, mock := newNotificationTestApp(t)

	// The where clause scopes the delete to the current user, so a foreign
	// or missing notification touches no rows and maps to 404.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/notifications/9", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
