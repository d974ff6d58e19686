package db

import (
	"errors"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func Migration(dbDSN, migratePath string) error {
	if dbDSN == "" {
		return errors.New("не указана строка подключения к базе данных")
	}
	if migratePath == "" {
		return errors.New("не указан путь к миграциям")
	}

	m, err := migrate.New("file://"+migratePath, dbDSN)
	if err != nil {
		log.Println("[ERROR] Не удалось инициализировать миграции:", err)
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Println("[WARN] Ошибка при закрытии миграций:", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Println("[ERROR] Не удалось применить миграции:", err)
		return err
	}
	return nil
}
