// Command staff-account-fn es la función Lambda que crea cuentas de login para
// miembros del staff. Comparte base de datos y secreto JWT con la API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"vet-hospital/internal/adapters/auth/jwtauth"
	pg "vet-hospital/internal/adapters/storage/postgres"
	"vet-hospital/internal/domain/accounts"
	"vet-hospital/internal/domain/rbac"
	"vet-hospital/internal/domain/staff"
	"vet-hospital/internal/platform/logger"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type secretPayload struct {
	DatabaseURL string `json:"DATABASE_URL"`
	JWTSecret   string `json:"JWT_SECRET"`
}

// loadSecrets usa las variables de entorno y, si hay SECRET_ARN, completa lo
// que falte desde Secrets Manager.
func loadSecrets(ctx context.Context) (secretPayload, error) {
	out := secretPayload{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}
	arn := strings.TrimSpace(os.Getenv("SECRET_ARN"))
	if arn == "" || (out.DatabaseURL != "" && out.JWTSecret != "") {
		return out, nil
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-central-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return out, fmt.Errorf("aws config: %w", err)
	}
	sm := secretsmanager.NewFromConfig(awsCfg)
	res, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &arn})
	if err != nil {
		return out, fmt.Errorf("get secret: %w", err)
	}
	if res.SecretString == nil {
		return out, fmt.Errorf("secret %s has no string value", arn)
	}
	var payload secretPayload
	if err := json.Unmarshal([]byte(*res.SecretString), &payload); err != nil {
		return out, fmt.Errorf("parse secret json: %w", err)
	}
	if out.DatabaseURL == "" {
		out.DatabaseURL = payload.DatabaseURL
	}
	if out.JWTSecret == "" {
		out.JWTSecret = payload.JWTSecret
	}
	return out, nil
}

func main() {
	log := logger.NewFromEnv().With(map[string]any{"fn": "staff-account"})
	ctx := context.Background()

	secrets, err := loadSecrets(ctx)
	if err != nil {
		log.Error("load secrets failed", map[string]any{"err": err})
		os.Exit(1)
	}
	if secrets.DatabaseURL == "" {
		log.Error("DATABASE_URL missing in env and secret", nil)
		os.Exit(1)
	}

	// El TTL no importa: la función sólo verifica tokens.
	tokens, err := jwtauth.NewManager(secrets.JWTSecret, time.Hour)
	if err != nil {
		log.Error("jwt manager", map[string]any{"err": err})
		os.Exit(1)
	}

	db, err := pg.Open(secrets.DatabaseURL)
	if err != nil {
		log.Error("open database failed", map[string]any{"err": err})
		os.Exit(1)
	}

	runner := pg.NewTxRunner(db)
	rbacSvc := rbac.NewService(pg.NewRBACRepo(db), runner)
	accountsSvc := accounts.NewService(pg.NewAccountsRepo(db), tokens, tokens, accounts.WithLogger(log))
	staffSvc := staff.NewService(pg.NewStaffRepo(db), pg.NewStaffTypesRepo(db), accountsSvc, rbacSvc, runner)

	h := handler{verifier: tokens, perms: rbacSvc, staff: staffSvc, log: log}
	lambda.Start(h.Handle)
}
