package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"shoppingCart/internal/db"
	"shoppingCart/internal/devserver"
	"shoppingCart/models"
)

var dbSeq atomic.Int64

// OpenInMemoryDB opens a private in-memory SQLite database with migrations applied.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	d, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SeedProducts inserts products with ids 1..n priced at id*1.50 and barcodes 800000000000+id.
func SeedProducts(t *testing.T, d *sql.DB, n int) []models.Product {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	out := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		p := models.Product{
			ID:       int64(i),
			Name:     fmt.Sprintf("Product %d", i),
			Price:    decimal.NewFromFloat(1.5).Mul(decimal.NewFromInt(int64(i))),
			Barcode:  fmt.Sprintf("%d", 800000000000+i),
			Category: "grocery",
		}
		if _, err := d.ExecContext(ctx, `INSERT INTO products (id, name, price, barcode, category) VALUES (?,?,?,?,?)`,
			p.ID, p.Name, p.Price.String(), p.Barcode, p.Category); err != nil {
			t.Fatalf("seed product %d: %v", i, err)
		}
		out = append(out, p)
	}
	return out
}

// SeedUser inserts a plain user and returns its id.
func SeedUser(t *testing.T, d *sql.DB, email string) int64 {
	t.Helper()
	res, err := d.Exec(`INSERT INTO users (name, email) VALUES (?, ?)`, strings.Split(email, "@")[0], email)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed user id: %v", err)
	}
	return id
}

// GenerateJWTHS256 returns a signed session token carrying the claims the app reads.
func GenerateJWTHS256(t *testing.T, secret string, userID int64, name, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"name": name,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// StartBackend serves the in-memory REST backend on an httptest server and returns it
// with the server's base URL. The REST API lives under /api and prices under /price.
func StartBackend(t *testing.T, secret, priceKey string) (*devserver.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := devserver.New(devserver.Options{JWTSecret: secret, PriceAPIKey: priceKey})
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return s, srv.URL
}
