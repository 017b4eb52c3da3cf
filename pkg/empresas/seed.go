// pkg/empresas/seed.go
package empresas

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"embedhub/pkg/credentials"
)

type seedConfig struct {
	Name            string `yaml:"name"`
	TenantID        string `yaml:"tenant_id"`
	AppClientID     string `yaml:"app_client_id"`
	AppClientSecret string `yaml:"app_client_secret"`
	WorkspaceID     string `yaml:"workspace_id"`
	ReportID        string `yaml:"report_id"`
	PBIUsername     string `yaml:"pbi_username"`
	PBIPassword     string `yaml:"pbi_password"`
	Publico         bool   `yaml:"es_publico"`
	Privado         bool   `yaml:"es_privado"`
}

type seedEmpresa struct {
	Nombre       string   `yaml:"nombre"`
	CUIT         string   `yaml:"cuit"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Reports      []string `yaml:"reports"` // config names to associate
}

type seedFile struct {
	ReportConfigs []seedConfig  `yaml:"report_configs"`
	Empresas      []seedEmpresa `yaml:"empresas"`
}

// SeedFromFile loads dev fixtures from a YAML file: report configs, empresas
// with fixed credentials, and their associations. Existing records (matched
// by name) are left untouched, so the seed can run on every boot.
func SeedFromFile(ctx context.Context, store Store, path string, log *zap.SugaredLogger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	existing, err := store.ListEmpresas(ctx)
	if err != nil {
		return err
	}
	byNombre := map[string]Empresa{}
	for _, e := range existing {
		byNombre[e.Nombre] = e
	}

	existingConfigs, err := store.ListReportConfigs(ctx)
	if err != nil {
		return err
	}
	configByName := map[string]int64{}
	for _, rc := range existingConfigs {
		configByName[rc.Name] = rc.ID
	}
	for _, sc := range seed.ReportConfigs {
		if _, ok := configByName[sc.Name]; ok {
			continue
		}
		rc := ReportConfig{
			Name:     sc.Name,
			TenantID: sc.TenantID, AppClientID: sc.AppClientID, AppClientSecret: sc.AppClientSecret,
			WorkspaceID: sc.WorkspaceID, ReportID: sc.ReportID,
			PBIUsername: sc.PBIUsername, PBIPassword: sc.PBIPassword,
			Publico: sc.Publico, Privado: sc.Privado,
		}
		if err := store.CreateReportConfig(ctx, &rc); err != nil {
			return err
		}
		configByName[rc.Name] = rc.ID
		log.Infow("seeded report config", "name", rc.Name, "id", rc.ID)
	}

	for _, se := range seed.Empresas {
		e, ok := byNombre[se.Nombre]
		if !ok {
			hash, err := credentials.HashSecret(se.ClientSecret)
			if err != nil {
				return err
			}
			e = Empresa{Nombre: se.Nombre, CUIT: se.CUIT, ClientID: se.ClientID, SecretHash: hash, Active: true}
			if err := store.CreateEmpresa(ctx, &e); err != nil {
				return err
			}
			log.Infow("seeded empresa", "nombre", e.Nombre, "id", e.ID)
		}
		ids := make([]int64, 0, len(se.Reports))
		for _, name := range se.Reports {
			id, ok := configByName[name]
			if !ok {
				return fmt.Errorf("seed: empresa %q references unknown report config %q", se.Nombre, name)
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			if err := store.ReplaceAssociations(ctx, e.ID, ids); err != nil {
				return err
			}
		}
	}
	return nil
}
