package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/domain/models"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "адрес сервера задач")
	username  = flag.String("username", "", "имя пользователя для входа")
	password  = flag.String("password", "", "пароль для входа")
	token     = flag.String("token", "", "готовый JWT-токен (вместо логина)")
	move      = flag.String("move", "", "перенос карточки, формат taskID:status")
)

func main() {
	flag.Parse()

	api := client.NewClient(*serverURL)
	if api == nil {
		log.Fatal("[ERROR] Не указан адрес сервера")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *token != "" {
		api.SetToken(*token)
	} else if *username != "" {
		user, err := api.Login(ctx, *username, *password)
		if err != nil {
			log.Fatalf("[ERROR] Не удалось войти: %v", err)
		}
		log.Println("[SUCCESS] Вход выполнен:", user.Username)
	} else {
		log.Fatal("[ERROR] Укажите -token либо -username и -password")
	}

	b := board.NewBoard(api)
	if err := b.Refresh(ctx); err != nil {
		log.Fatalf("[ERROR] Не удалось загрузить доску: %v", err)
	}

	if *move != "" {
		parts := strings.SplitN(*move, ":", 2)
		if len(parts) != 2 {
			log.Fatal("[ERROR] Формат переноса: taskID:status")
		}
		if err := b.DragStart(parts[0]); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
		b.DragOver(parts[1])
		moved, err := b.Drop(ctx, parts[1])
		if err != nil {
			log.Fatalf("[ERROR] Не удалось перенести карточку: %v", err)
		}
		if moved {
			log.Println("[SUCCESS] Карточка перенесена в", parts[1])
		} else {
			log.Println("[INFO] Карточка уже в этой колонке, запрос не отправлялся")
		}
	}

	render(b)
}

func render(b *board.Board) {
	dash := board.Summarize(b.Tasks(), time.Now())
	fmt.Printf("Всего: %d | В работе: %d | Завершено: %d | Срок сегодня: %d\n\n",
		dash.Total, dash.InProgress, dash.Completed, dash.DueToday)

	lanes := b.Lanes()
	printLane("TO DO", lanes.Todo)
	printLane("IN PROGRESS", lanes.Progress)
	printLane("COMPLETE", lanes.Complete)

	if len(dash.Recent) > 0 {
		fmt.Println("Недавняя активность:")
		for _, task := range dash.Recent {
			fmt.Printf("  %s  %s\n", task.UpdatedAt.Format("2006-01-02 15:04"), task.Title)
		}
	}
}

func printLane(title string, tasks []models.Task) {
	fmt.Printf("%s (%d)\n", title, len(tasks))
	for _, task := range tasks {
		due := ""
		if task.DueDate != nil {
			due = " до " + *task.DueDate
		}
		fmt.Printf("  [%s] %s (%s)%s\n", task.ID, task.Title, task.Priority, due)
	}
	fmt.Println()
}
