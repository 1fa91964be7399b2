// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/doctemplate"
	"clinova/internal/domain/catalogs/employee"
	"clinova/internal/domain/catalogs/patient"
	"clinova/internal/domain/catalogs/product"
	"clinova/internal/domain/catalogs/soin"
	"clinova/internal/domain/settings"
	"clinova/internal/infrastructure/storage/postgres"
	"clinova/internal/infrastructure/storage/postgres/catalog_repo"
	"clinova/internal/infrastructure/storage/postgres/settings_repo"
	"clinova/pkg/logger"
	"clinova/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Seed roles and permissions first; the admin user references them
	if err := seedRolesAndPermissions(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed roles and permissions", "error", err)
	}

	if _, err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// rolePermissions maps role codes to the permissions they grant.
// The administratif role gets every permission; admin accounts bypass
// permission checks entirely.
var rolePermissions = map[string][]string{
	"medecin": {
		"catalog:patient:read", "catalog:patient:create", "catalog:patient:update",
		"catalog:product:read",
		"catalog:soin:read",
		"catalog:employee:read",
		"catalog:doctemplate:read", "catalog:doctemplate:render",
		"document:facture:read", "document:facture:create", "document:facture:update", "document:facture:status",
		"document:rendezvous:read", "document:rendezvous:create", "document:rendezvous:update", "document:rendezvous:status",
		"register:stock:read",
		"report:stock:read", "report:revenue:read", "report:documents:read",
		"workflow:read",
	},
	"kine": {
		"catalog:patient:read",
		"catalog:soin:read",
		"catalog:doctemplate:read", "catalog:doctemplate:render",
		"document:rendezvous:read", "document:rendezvous:status",
		"workflow:read",
	},
	"infirmier": {
		"catalog:patient:read", "catalog:patient:update",
		"catalog:soin:read",
		"catalog:product:read",
		"document:rendezvous:read", "document:rendezvous:status",
		"workflow:read",
	},
	"secretaire": {
		"catalog:patient:read", "catalog:patient:create", "catalog:patient:update", "catalog:patient:delete",
		"catalog:product:read",
		"catalog:soin:read",
		"catalog:employee:read",
		"catalog:doctemplate:read", "catalog:doctemplate:render",
		"document:facture:read", "document:facture:create", "document:facture:update", "document:facture:status",
		"document:rendezvous:read", "document:rendezvous:create", "document:rendezvous:update", "document:rendezvous:delete", "document:rendezvous:status",
		"register:stock:read",
		"workflow:read",
		"settings:read",
	},
}

func allPermissions() []string {
	perms := []string{
		"catalog:doctemplate:render",
		"document:facture:status",
		"document:rendezvous:status",
		"register:stock:read", "register:stock:recalculate",
		"report:stock:read", "report:revenue:read", "report:documents:read",
		"workflow:read",
		"settings:read", "settings:update",
	}
	for _, entity := range []string{"patient", "product", "soin", "employee", "doctemplate"} {
		for _, action := range []string{"read", "create", "update", "delete"} {
			perms = append(perms, "catalog:"+entity+":"+action)
		}
	}
	for _, doc := range []string{"facture", "rendezvous"} {
		for _, action := range []string{"read", "create", "update", "delete"} {
			perms = append(perms, "document:"+doc+":"+action)
		}
	}
	return perms
}

func seedRolesAndPermissions(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	roles := []struct {
		code     string
		name     string
		isSystem bool
	}{
		{"admin", "Administrateur système", true},
		{"medecin", "Médecin", false},
		{"kine", "Kinésithérapeute", false},
		{"infirmier", "Infirmier", false},
		{"secretaire", "Secrétaire", false},
		{"administratif", "Administratif", false},
	}

	for _, r := range roles {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO sys_roles (id, code, name, description, is_system, created_at, updated_at)
			VALUES ($1, $2, $3, '', $4, NOW(), NOW())
			ON CONFLICT (code) DO NOTHING
		`, id.New(), r.code, r.name, r.isSystem)
		if err != nil {
			return fmt.Errorf("insert role %s: %w", r.code, err)
		}
	}

	for _, code := range allPermissions() {
		idx := strings.LastIndex(code, ":")
		resource, action := code[:idx], code[idx+1:]
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO sys_permissions (id, code, name, resource, action, created_at)
			VALUES ($1, $2, $2, $3, $4, NOW())
			ON CONFLICT (code) DO NOTHING
		`, id.New(), code, resource, action)
		if err != nil {
			return fmt.Errorf("insert permission %s: %w", code, err)
		}
	}

	grant := func(roleCode, permCode string) error {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO sys_role_permissions (role_id, permission_id)
			SELECT r.id, p.id
			FROM sys_roles r, sys_permissions p
			WHERE r.code = $1 AND p.code = $2
			ON CONFLICT DO NOTHING
		`, roleCode, permCode)
		return err
	}

	for roleCode, perms := range rolePermissions {
		for _, perm := range perms {
			if err := grant(roleCode, perm); err != nil {
				return fmt.Errorf("grant %s to %s: %w", perm, roleCode, err)
			}
		}
	}

	for _, perm := range allPermissions() {
		if err := grant("administratif", perm); err != nil {
			return fmt.Errorf("grant %s to administratif: %w", perm, err)
		}
	}

	log.Info("roles and permissions seeded")
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@clinova.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM sys_users WHERE email = $1 AND deleted_at IS NULL`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO sys_users (
			id, email, password_hash, cin, first_name, last_name,
			is_active, is_admin, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, '', 'System', 'Admin', true, true, $4, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO sys_user_roles (user_id, role_id, granted_by, granted_at)
		SELECT $1, id, NULL, NOW() FROM sys_roles WHERE code = 'admin'
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID)
	if err != nil {
		log.Warnw("failed to assign admin role", "error", err)
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	txManager := postgres.NewTxManager(pool)
	num := numerator.New(pool)

	renderer, err := doctemplate.NewRenderer()
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	patientService := patient.NewService(catalog_repo.NewPatientRepo(txManager), txManager, num)
	productService := product.NewService(catalog_repo.NewProductRepo(txManager), txManager, num)
	soinService := soin.NewService(catalog_repo.NewSoinRepo(txManager), txManager, num)
	employeeService := employee.NewService(catalog_repo.NewEmployeeRepo(txManager), txManager, num)
	templateService := doctemplate.NewService(catalog_repo.NewTemplateRepo(txManager), txManager, num, renderer)
	settingsService := settings.NewService(settings_repo.NewSettingsRepo(txManager), txManager)

	// Demo data is only seeded into an empty clinic
	existing, err := patientService.List(ctx, domain.DefaultListFilter())
	if err != nil {
		return fmt.Errorf("check existing patients: %w", err)
	}
	if len(existing.Items) > 0 {
		log.Info("demo data already present, skipping")
		return nil
	}

	// 1. Patients
	patients := []*patient.Patient{
		newDemoPatient("AB123456", "El Amrani", "Yassine", "1985-03-12", "CNOPS"),
		newDemoPatient("CD789012", "Benani", "Salma", "1992-07-28", "CNSS"),
		newDemoPatient("EF345678", "Tazi", "Omar", "1978-11-05", ""),
	}
	for _, p := range patients {
		if err := patientService.Create(ctx, p); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.CIN, err)
		}
	}

	// 2. Employees
	employees := []*employee.Employee{
		employee.NewEmployee("GH901234", "Alaoui", "Karim", employee.RoleMedecin),
		employee.NewEmployee("IJ567890", "Chraibi", "Nadia", employee.RoleKine),
		employee.NewEmployee("KL123789", "Berrada", "Fatima", employee.RoleSecretaire),
	}
	for _, e := range employees {
		if err := employeeService.Create(ctx, e); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.CIN, err)
		}
	}

	// 3. Products
	products := []struct {
		name  string
		prix  string
		stock int64
		seuil int64
	}{
		{"Crème de massage 500ml", "120.50", 20, 5},
		{"Huile essentielle arnica", "85.00", 12, 3},
		{"Bande élastique 5m", "30.00", 50, 10},
		{"Électrodes TENS (x4)", "45.00", 8, 4},
	}
	for _, p := range products {
		prod := product.NewProduct(p.name, decimal.RequireFromString(p.prix))
		prod.QuantiteStock = types.Quantity(p.stock)
		prod.SeuilAlerte = types.Quantity(p.seuil)
		if err := productService.Create(ctx, prod); err != nil {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
	}

	// 4. Soins
	soins := []struct {
		name  string
		stype soin.SoinType
		prix  string
		duree int
	}{
		{"Consultation initiale", soin.TypeConsultation, "300.00", 30},
		{"Séance de kinésithérapie", soin.TypeSeance, "150.00", 45},
		{"Bilan postural complet", soin.TypeBilan, "400.00", 60},
	}
	for _, s := range soins {
		sn := soin.NewSoin(s.name, s.stype, decimal.RequireFromString(s.prix))
		sn.DureeMinutes = s.duree
		if err := soinService.Create(ctx, sn); err != nil {
			return fmt.Errorf("seed soin %s: %w", s.name, err)
		}
	}

	// 5. Document template
	certificat := doctemplate.NewTemplate(
		"Certificat médical standard",
		doctemplate.CategoryCertificat,
		"Je soussigné, Dr. {{entreprise.nom}}, certifie avoir examiné ce jour "+
			"{{patient.prenom}} {{patient.nom}}, titulaire de la CIN {{patient.cin}}, "+
			"né(e) le {{patient.dateNaissance}}.",
	)
	if err := templateService.Create(ctx, certificat); err != nil {
		return fmt.Errorf("seed template: %w", err)
	}

	// 6. Clinic profile
	entreprise := &settings.Entreprise{
		Nom:         "Cabinet Clinova",
		Adresse:     "12 Avenue Hassan II",
		Ville:       "Casablanca",
		Telephone:   "+212 522 000 000",
		Email:       "contact@clinova.local",
		ICE:         "001234567000089",
		AfficherTVA: true,
		PiedDePage:  "Merci de votre confiance",
	}
	if err := settingsService.SaveEntreprise(ctx, entreprise); err != nil {
		return fmt.Errorf("seed entreprise: %w", err)
	}

	log.Info("demo data seeded successfully")
	return nil
}

func newDemoPatient(cin, nom, prenom, naissance, mutuelle string) *patient.Patient {
	p := patient.NewPatient(cin, nom, prenom)
	if d, err := time.Parse("2006-01-02", naissance); err == nil {
		p.DateNaissance = &d
	}
	if mutuelle != "" {
		p.Mutuelle = &mutuelle
	}
	return p
}
