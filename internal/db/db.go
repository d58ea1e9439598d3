package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/yourorg/dataexpress/internal/config"
)

// ============================================================================
// CLIENTES FIREBASE / GCP
// ============================================================================
// Todos los clientes comparten las mismas credenciales: el archivo indicado
// en GOOGLE_APPLICATION_CREDENTIALS o las credenciales por defecto del entorno.

func clientOptions(cfg *config.Config) []option.ClientOption {
	if cfg.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
}

// NewFirebaseApp inicializa la app de Firebase Admin
func NewFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	if cfg.FirebaseProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID must be provided to initialize Firebase")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.StorageBucket,
	}, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	log.Printf("🔥 Firebase inicializado (proyecto %s)", cfg.FirebaseProjectID)
	return app, nil
}

// ConnectFirestore crea el cliente de Firestore
func ConnectFirestore(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	if cfg.FirebaseProjectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// ConnectStorage crea el cliente de Cloud Storage
func ConnectStorage(ctx context.Context, cfg *config.Config) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return client, nil
}

// ConnectAuth crea el cliente de Firebase Authentication
func ConnectAuth(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase Auth client: %w", err)
	}
	return client, nil
}
