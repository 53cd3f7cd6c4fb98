// Command devtoken mints an access token for local testing against the API.
//
//	go run ./cmd/devtoken -employee <id> -role manager
//
// Employee ids for the mock backend are logged by the API at startup.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/config"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	employeeID := flag.String("employee", "", "employee id the token acts as (required)")
	businessID := flag.String("business", cfg.App.MockBusinessID, "business id")
	userID := flag.String("user", "", "identity provider user id (defaults to dev-<employee>)")
	role := flag.String("role", string(employee.RoleEmployee), "owner, manager or employee")
	ttl := flag.Duration("ttl", cfg.JWT.AccessExpiration, "token lifetime")
	flag.Parse()

	if *employeeID == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *userID == "" {
		*userID = "dev-" + *employeeID
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, *ttl).GenerateAccessToken(jwt.Claims{
		UserID:     *userID,
		EmployeeID: *employeeID,
		BusinessID: *businessID,
		Role:       employee.Role(*role),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
