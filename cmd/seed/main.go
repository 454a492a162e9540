package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ikkim/reviewhub-backend/config"
	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/db"
	"github.com/ikkim/reviewhub-backend/pkg/util"
)

// XLSX 시트 구성:
//   Users   시트: email | name | password | role
//   Reviews 시트: user_email | title | content | rating | image_url
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.New(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to migrate:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	users, err := readUsers(f)
	if err != nil {
		log.Fatal("Failed to read users sheet:", err)
	}
	reviews, err := readReviews(f)
	if err != nil {
		log.Fatal("Failed to read reviews sheet:", err)
	}

	fmt.Printf("Total users to import: %d\n", len(users))
	fmt.Printf("Total reviews to import: %d\n", len(reviews))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 사용자 저장 (이메일 → ID 매핑 유지)
	userIDs := make(map[string]uint, len(users))
	for i := range users {
		if err := database.Create(&users[i]).Error; err != nil {
			log.Printf("Skipping user %s: %v", users[i].Email, err)
			continue
		}
		userIDs[users[i].Email] = users[i].ID
	}
	fmt.Printf("Imported %d users\n", len(userIDs))

	// 리뷰 저장
	imported := 0
	for _, r := range reviews {
		userID, ok := userIDs[r.email]
		if !ok {
			// 기존 DB의 사용자일 수도 있음
			var existing model.User
			if err := database.Where("email = ?", r.email).First(&existing).Error; err != nil {
				log.Printf("Skipping review %q: unknown user %s", r.title, r.email)
				continue
			}
			userID = existing.ID
		}

		review := model.Review{
			UserID:   userID,
			Title:    r.title,
			Content:  r.content,
			Rating:   r.rating,
			ImageURL: r.imageURL,
		}
		if err := database.Create(&review).Error; err != nil {
			log.Printf("Skipping review %q: %v", r.title, err)
			continue
		}
		imported++
	}
	fmt.Printf("Imported %d reviews\n", imported)
	fmt.Println("Done.")
}

func readUsers(f *excelize.File) ([]model.User, error) {
	rows, err := f.GetRows("Users")
	if err != nil {
		return nil, err
	}

	var users []model.User
	for i, row := range rows {
		if i == 0 {
			// 헤더 행
			continue
		}
		if len(row) < 3 {
			continue
		}

		email := strings.ToLower(strings.TrimSpace(row[0]))
		name := strings.TrimSpace(row[1])
		password := row[2]
		role := model.RoleUser
		if len(row) > 3 && row[3] != "" {
			role = model.UserRole(strings.TrimSpace(row[3]))
			if !role.IsValid() {
				return nil, fmt.Errorf("row %d: invalid role %q", i+1, row[3])
			}
		}

		hash, err := util.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		users = append(users, model.User{
			Email:        email,
			PasswordHash: hash,
			Name:         name,
			Role:         role,
			LoginMethod:  model.LoginLocal,
		})
	}
	return users, nil
}

type reviewRow struct {
	email    string
	title    string
	content  string
	rating   int
	imageURL string
}

func readReviews(f *excelize.File) ([]reviewRow, error) {
	rows, err := f.GetRows("Reviews")
	if err != nil {
		// Reviews 시트는 선택
		return nil, nil
	}

	var reviews []reviewRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			continue
		}

		r := reviewRow{
			email:   strings.ToLower(strings.TrimSpace(row[0])),
			title:   strings.TrimSpace(row[1]),
			content: strings.TrimSpace(row[2]),
			rating:  5,
		}
		if len(row) > 3 && row[3] != "" {
			rating, err := strconv.Atoi(strings.TrimSpace(row[3]))
			if err != nil || rating < 1 || rating > 5 {
				return nil, fmt.Errorf("row %d: invalid rating %q", i+1, row[3])
			}
			r.rating = rating
		}
		if len(row) > 4 {
			r.imageURL = strings.TrimSpace(row[4])
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}
