package main

import (
	"log"
	"time"

	"github.com/eduplus/eduplus-backend/internal/announcements"
	"github.com/eduplus/eduplus-backend/internal/auth"
	"github.com/eduplus/eduplus-backend/internal/config"
	"github.com/eduplus/eduplus-backend/internal/courses"
	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/messages"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a small, self-consistent demo dataset: one admin, two instructors,
// three students, three courses with enrollments, assignments, submissions in
// every status, announcements and a message exchange.
func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	db.Connect(cfg.DatabaseURL)

	auth.Init()
	courses.Init()
	announcements.Init()
	messages.Init()

	log.Println("[seed] clearing existing data")
	// Reverse dependency order.
	for _, model := range []interface{}{
		&messages.Message{},
		&announcements.Announcement{},
		&courses.Submission{},
		&courses.Assignment{},
		&courses.Enrollment{},
		&courses.Course{},
		&auth.User{},
	} {
		if err := db.DB.Where("1 = 1").Delete(model).Error; err != nil {
			log.Fatal("[seed] failed to clear table: ", err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("[seed] bcrypt error: ", err)
	}

	newUser := func(name, email string, role auth.Role) auth.User {
		user := auth.User{
			ID:             uuid.NewString(),
			Name:           name,
			Email:          email,
			HashedPassword: string(hashed),
			Role:           role,
		}
		if err := db.DB.Create(&user).Error; err != nil {
			log.Fatal("[seed] failed to create user: ", err)
		}
		return user
	}

	log.Println("[seed] creating users")
	admin := newUser("Admin User", "admin@eduplus.com", auth.RoleAdmin)
	instructor1 := newUser("Dr. John Smith", "john.smith@eduplus.com", auth.RoleInstructor)
	instructor2 := newUser("Prof. Sarah Doe", "sarah.doe@eduplus.com", auth.RoleInstructor)
	student1 := newUser("Alice Johnson", "alice@student.com", auth.RoleStudent)
	student2 := newUser("Bob Miller", "bob@student.com", auth.RoleStudent)
	student3 := newUser("Charlie Brown", "charlie@student.com", auth.RoleStudent)

	newCourse := func(title, code, description string, instructor auth.User) courses.Course {
		course := courses.Course{
			ID:           uuid.NewString(),
			Title:        title,
			Code:         code,
			Description:  description,
			InstructorID: instructor.ID,
		}
		if err := db.DB.Create(&course).Error; err != nil {
			log.Fatal("[seed] failed to create course: ", err)
		}
		return course
	}

	log.Println("[seed] creating courses")
	cs101 := newCourse("Introduction to Computer Science", "CS101",
		"A fundamental course covering basics of programming and algorithms.", instructor1)
	cs302 := newCourse("Advanced Web Development", "CS302",
		"Deep dive into modern web frameworks and backend systems.", instructor2)
	cs205 := newCourse("Database Management Systems", "CS205",
		"Understanding relational databases, SQL, and NoSQL systems.", instructor1)

	log.Println("[seed] creating enrollments")
	enrollments := []courses.Enrollment{
		{ID: uuid.NewString(), UserID: student1.ID, CourseID: cs101.ID},
		{ID: uuid.NewString(), UserID: student1.ID, CourseID: cs302.ID},
		{ID: uuid.NewString(), UserID: student2.ID, CourseID: cs101.ID},
		{ID: uuid.NewString(), UserID: student2.ID, CourseID: cs205.ID},
		{ID: uuid.NewString(), UserID: student3.ID, CourseID: cs302.ID},
		{ID: uuid.NewString(), UserID: student3.ID, CourseID: cs205.ID},
	}
	if err := db.DB.Create(&enrollments).Error; err != nil {
		log.Fatal("[seed] failed to create enrollments: ", err)
	}

	log.Println("[seed] creating assignments")
	nextWeek := time.Now().Add(7 * 24 * time.Hour)
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)
	hello := courses.Assignment{
		ID: uuid.NewString(), Title: "Hello World Program",
		Description: "Write your first program.", CourseID: cs101.ID, DueDate: &lastWeek,
	}
	algorithms := courses.Assignment{
		ID: uuid.NewString(), Title: "Sorting Algorithms",
		Description: "Implement bubble sort and quicksort.", CourseID: cs101.ID, DueDate: &nextWeek,
	}
	restAPI := courses.Assignment{
		ID: uuid.NewString(), Title: "Build a REST API",
		Description: "Design and build a small JSON API.", CourseID: cs302.ID, DueDate: &nextWeek,
	}
	erDiagram := courses.Assignment{
		ID: uuid.NewString(), Title: "ER Diagram",
		Description: "Model a library database.", CourseID: cs205.ID,
	}
	if err := db.DB.Create(&[]courses.Assignment{hello, algorithms, restAPI, erDiagram}).Error; err != nil {
		log.Fatal("[seed] failed to create assignments: ", err)
	}

	log.Println("[seed] creating submissions")
	grade := 92.0
	gradedAt := time.Now().Add(-24 * time.Hour)
	submissions := []courses.Submission{
		{
			ID: uuid.NewString(), AssignmentID: hello.ID, StudentID: student1.ID,
			Content: "print(\"hello world\")", Status: courses.StatusGraded,
			Grade: &grade, SubmittedAt: time.Now().Add(-72 * time.Hour), GradedAt: &gradedAt,
		},
		{
			ID: uuid.NewString(), AssignmentID: hello.ID, StudentID: student2.ID,
			Content: "my first program", Status: courses.StatusSubmitted,
			SubmittedAt: time.Now().Add(-48 * time.Hour),
		},
		{
			ID: uuid.NewString(), AssignmentID: restAPI.ID, StudentID: student3.ID,
			FileURL: "https://files.eduplus.dev/charlie/api.zip", Status: courses.StatusSubmitted,
			SubmittedAt: time.Now().Add(-2 * time.Hour),
		},
	}
	if err := db.DB.Create(&submissions).Error; err != nil {
		log.Fatal("[seed] failed to create submissions: ", err)
	}

	log.Println("[seed] creating announcements")
	anns := []announcements.Announcement{
		{
			ID: uuid.NewString(), Title: "Welcome to CS101",
			Content: "First lecture is Monday 9am.", CourseID: cs101.ID,
		},
		{
			ID: uuid.NewString(), Title: "Project groups",
			Content: "Group signup sheet is now open.", CourseID: cs302.ID,
			Attachments: []string{"https://files.eduplus.dev/cs302/groups.pdf"},
		},
	}
	if err := db.DB.Create(&anns).Error; err != nil {
		log.Fatal("[seed] failed to create announcements: ", err)
	}

	log.Println("[seed] creating messages")
	msgs := []messages.Message{
		{
			ID: uuid.NewString(), SenderID: student1.ID, ReceiverID: instructor1.ID,
			Content: "Could I get an extension on the sorting assignment?", Read: true,
			CreatedAt: time.Now().Add(-3 * time.Hour),
		},
		{
			ID: uuid.NewString(), SenderID: instructor1.ID, ReceiverID: student1.ID,
			Content: "Yes, you have until Friday.",
			CreatedAt: time.Now().Add(-2 * time.Hour),
		},
		{
			ID: uuid.NewString(), SenderID: admin.ID, ReceiverID: instructor2.ID,
			Content: "Please confirm your course roster for next term.",
			CreatedAt: time.Now().Add(-1 * time.Hour),
		},
	}
	if err := db.DB.Create(&msgs).Error; err != nil {
		log.Fatal("[seed] failed to create messages: ", err)
	}

	log.Println("[seed] done")
}
