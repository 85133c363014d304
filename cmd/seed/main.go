package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/spf13/cobra"

	"github.com/d-krupke/thesis-manager/config"
	"github.com/d-krupke/thesis-manager/pkg/httpclient"
	"github.com/d-krupke/thesis-manager/pkg/logging"
	"github.com/d-krupke/thesis-manager/pkg/models"
	"github.com/d-krupke/thesis-manager/pkg/thesisclient"
)

func main() {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate a thesis manager instance with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), skipConfirm)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the confirmation prompt")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSeed(ctx context.Context, skipConfirm bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.ThesisManagerAPIToken == "" {
		return fmt.Errorf("THESIS_MANAGER_API_TOKEN is not set")
	}

	if !skipConfirm {
		fmt.Println("This will create demo students, supervisors, theses and comments")
		fmt.Printf("on %s. Do not run this against real data.\n", cfg.ThesisManagerURL)
		fmt.Print("Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	logger := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	httpClient := httpclient.NewClient(httpclient.Config{Timeout: cfg.ThesisManagerTimeout}, logger)
	client := thesisclient.NewClient(httpClient, cfg.ThesisManagerURL, cfg.ThesisManagerAPIToken, logger)

	seeder := &seeder{client: client, logger: logger}
	return seeder.Run(ctx)
}

type seeder struct {
	client *thesisclient.Client
	logger ectologger.Logger
}

func (s *seeder) Run(ctx context.Context) error {
	students, err := s.createStudents(ctx)
	if err != nil {
		return err
	}
	supervisors, err := s.createSupervisors(ctx)
	if err != nil {
		return err
	}

	created := 0
	byPhase := map[models.Phase]int{}
	for _, req := range demoTheses(students, supervisors) {
		thesis, err := s.client.CreateThesis(ctx, req)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("title", req.Title).Warn("Failed to create thesis")
			continue
		}
		created++
		byPhase[thesis.Phase]++

		for _, text := range demoComments(thesis.Phase) {
			if _, err := s.client.AddComment(ctx, thesis.ID, text); err != nil {
				s.logger.WithContext(ctx).WithError(err).WithField("thesis_id", thesis.ID).Warn("Failed to add comment")
			}
		}
	}

	fmt.Println("Demo data population complete.")
	fmt.Printf("Created %d students, %d supervisors, %d theses.\n", len(students), len(supervisors), created)
	fmt.Println("Theses by phase:")
	for _, phase := range models.ValidPhases {
		if byPhase[phase] > 0 {
			fmt.Printf("  %s: %d\n", phase, byPhase[phase])
		}
	}
	return nil
}

func (s *seeder) createStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	for _, req := range demoStudents {
		student, err := s.client.CreateStudent(ctx, req)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("email", req.Email).Warn("Failed to create student")
			continue
		}
		students = append(students, *student)
	}
	if len(students) == 0 {
		return nil, fmt.Errorf("failed to create any students")
	}
	return students, nil
}

func (s *seeder) createSupervisors(ctx context.Context) ([]models.Supervisor, error) {
	var supervisors []models.Supervisor
	for _, req := range demoSupervisors {
		supervisor, err := s.client.CreateSupervisor(ctx, req)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("email", req.Email).Warn("Failed to create supervisor")
			continue
		}
		supervisors = append(supervisors, *supervisor)
	}
	if len(supervisors) == 0 {
		return nil, fmt.Errorf("failed to create any supervisors")
	}
	return supervisors, nil
}

func strptr(s string) *string { return &s }

func daysAgo(n int) *models.Date {
	d := models.DateOf(time.Now().AddDate(0, 0, -n))
	return &d
}

func daysAhead(n int) *models.Date {
	return daysAgo(-n)
}

var demoStudents = []models.CreateStudentRequest{
	{FirstName: "Emma", LastName: "Johnson", Email: "emma.johnson@university.edu", StudentID: strptr("STU001"), Comments: "Excellent student, very motivated"},
	{FirstName: "Liam", LastName: "Smith", Email: "liam.smith@university.edu", StudentID: strptr("STU002"), Comments: "Strong background in algorithms"},
	{FirstName: "Olivia", LastName: "Brown", Email: "olivia.brown@university.edu", StudentID: strptr("STU003"), Comments: "Interested in machine learning"},
	{FirstName: "Noah", LastName: "Davis", Email: "noah.davis@university.edu", StudentID: strptr("STU004"), Comments: "Working part-time, needs flexible schedule"},
	{FirstName: "Ava", LastName: "Miller", Email: "ava.miller@university.edu", StudentID: strptr("STU005"), Comments: "Strong programming skills"},
	{FirstName: "Ethan", LastName: "Wilson", Email: "ethan.wilson@university.edu", StudentID: strptr("STU006"), Comments: "Interested in web development"},
	{FirstName: "Sophia", LastName: "Moore", Email: "sophia.moore@university.edu", StudentID: strptr("STU007"), Comments: "Background in data science"},
	{FirstName: "Mason", LastName: "Taylor", Email: "mason.taylor@university.edu", StudentID: strptr("STU008"), Comments: "Good team player"},
	{FirstName: "Isabella", LastName: "Anderson", Email: "isabella.anderson@university.edu", StudentID: strptr("STU009"), Comments: "Experience with mobile development"},
	{FirstName: "James", LastName: "Thomas", Email: "james.thomas@university.edu", StudentID: strptr("STU010"), Comments: "Research-oriented, interested in PhD"},
}

var demoSupervisors = []models.CreateSupervisorRequest{
	{FirstName: "Dr. Sarah", LastName: "Chen", Email: "sarah.chen@university.edu", Comments: "Specialization: Machine Learning and AI"},
	{FirstName: "Prof. Michael", LastName: "Rodriguez", Email: "michael.rodriguez@university.edu", Comments: "Specialization: Software Engineering"},
	{FirstName: "Dr. Lisa", LastName: "Patel", Email: "lisa.patel@university.edu", Comments: "Specialization: Data Science and Visualization"},
	{FirstName: "Dr. David", LastName: "Kim", Email: "david.kim@university.edu", Comments: "Specialization: Distributed Systems"},
	{FirstName: "Prof. Anna", LastName: "Wagner", Email: "anna.wagner@university.edu", Comments: "Specialization: Human-Computer Interaction"},
}

func demoTheses(students []models.Student, supervisors []models.Supervisor) []models.CreateThesisRequest {
	student := func(i int) []string { return []string{students[i%len(students)].ID} }
	supervisor := func(i int) []string { return []string{supervisors[i%len(supervisors)].ID} }

	return []models.CreateThesisRequest{
		{
			Title: "Exploring Deep Learning Approaches for Medical Image Segmentation", ThesisType: models.ThesisTypeMaster, Phase: models.PhaseFirstContact,
			StudentIDs: student(0), SupervisorIDs: supervisor(0),
			DateFirstContact: daysAgo(5),
			Description:      "Initial inquiry about working with medical imaging datasets",
		},
		{
			Title: "Microservices Architecture for E-Commerce Platforms", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseFirstContact,
			StudentIDs: student(1), SupervisorIDs: supervisor(1),
			DateFirstContact: daysAgo(12),
			Description:      "Student interested in cloud-native architectures",
		},
		{
			Title: "Real-time Data Visualization for IoT Sensor Networks", ThesisType: models.ThesisTypeMaster, Phase: models.PhaseTopicDiscussion,
			StudentIDs: student(2), SupervisorIDs: supervisor(2),
			DateFirstContact: daysAgo(45),
			Description:      "Exploring different visualization frameworks",
		},
		{
			Title: "Comparative Analysis of Graph Databases for Social Networks", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseLiteratureResearch,
			StudentIDs: student(3), SupervisorIDs: supervisor(3),
			DateFirstContact: daysAgo(38), DateTopicSelected: daysAgo(20),
			Description: "Comparing Neo4j, ArangoDB, and TigerGraph",
		},
		{
			Title: "Mobile App Development with Cross-Platform Frameworks", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseRegistered,
			StudentIDs: student(4), SupervisorIDs: supervisor(4),
			DateFirstContact: daysAgo(75), DateTopicSelected: daysAgo(30), DateRegistration: daysAgo(10),
			Description: "Comparing React Native vs Flutter for enterprise apps",
		},
		{
			Title: "Blockchain-based Supply Chain Tracking System", ThesisType: models.ThesisTypeMaster, Phase: models.PhaseRegistered,
			StudentIDs: student(5), SupervisorIDs: supervisor(1),
			DateFirstContact: daysAgo(82), DateTopicSelected: daysAgo(25), DateRegistration: daysAgo(7),
			Description: "Implementing smart contracts for supply chain transparency",
		},
		{
			Title: "Natural Language Processing for Customer Support Automation", ThesisType: models.ThesisTypeMaster, Phase: models.PhaseWorking,
			StudentIDs: student(6), SupervisorIDs: supervisor(0),
			DateFirstContact: daysAgo(120), DateTopicSelected: daysAgo(75), DateRegistration: daysAgo(45), DateDeadline: daysAhead(75),
			GitRepository: "https://github.com/example/nlp-customer-support",
			Description:   "Building a chatbot using transformer models", TaskDescription: "Implement and evaluate BERT-based intent classification system",
		},
		{
			Title: "Performance Optimization of Distributed Database Queries", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseWorking,
			StudentIDs: student(7), SupervisorIDs: supervisor(3),
			DateFirstContact: daysAgo(135), DateTopicSelected: daysAgo(90), DateRegistration: daysAgo(60), DateDeadline: daysAhead(50),
			GitRepository: "https://github.com/example/db-query-optimization",
			Description:   "Optimizing query performance in PostgreSQL clusters",
		},
		{
			Title: "Computer Vision for Autonomous Drone Navigation", ThesisType: models.ThesisTypeMaster, Phase: models.PhaseWorking,
			StudentIDs: student(8), SupervisorIDs: supervisor(0),
			DateFirstContact: daysAgo(140), DateTopicSelected: daysAgo(105), DateRegistration: daysAgo(75), DateDeadline: daysAhead(45),
			GitRepository: "https://github.com/example/drone-cv",
			Description:   "Real-time object detection and path planning",
		},
		{
			Title: "Security Analysis of Modern Web Authentication Protocols", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseSubmitted,
			StudentIDs: student(9), SupervisorIDs: supervisor(1),
			DateFirstContact: daysAgo(180), DateTopicSelected: daysAgo(145), DateRegistration: daysAgo(120), DateDeadline: daysAgo(10), DatePresentation: daysAhead(20),
			GitRepository: "https://github.com/example/web-auth-security",
			Description:   "Analysis of OAuth 2.0, OpenID Connect, and WebAuthn",
		},
		{
			Title: "Machine Learning for Stock Price Prediction", ThesisType: models.ThesisTypeMaster, Phase: models.PhaseSubmitted,
			StudentIDs: student(0), SupervisorIDs: supervisor(2),
			DateFirstContact: daysAgo(190), DateTopicSelected: daysAgo(155), DateRegistration: daysAgo(130), DateDeadline: daysAgo(5), DatePresentation: daysAhead(25),
			GitRepository: "https://github.com/example/ml-stock-prediction",
			Description:   "Using LSTM networks for time series forecasting",
		},
		{
			Title: "Gamification Techniques for Educational Software", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseDefended,
			StudentIDs: student(1), SupervisorIDs: supervisor(4),
			DateFirstContact: daysAgo(200), DateTopicSelected: daysAgo(165), DateRegistration: daysAgo(140), DateDeadline: daysAgo(45), DatePresentation: daysAgo(15),
			Description: "Implementing and evaluating game elements in learning platforms",
		},
		{
			Title: "Energy Efficiency in Cloud Computing Infrastructure", ThesisType: models.ThesisTypeMaster, Phase: models.PhaseReviewed,
			StudentIDs: student(2), SupervisorIDs: supervisor(3),
			DateFirstContact: daysAgo(210), DateTopicSelected: daysAgo(175), DateRegistration: daysAgo(150), DateDeadline: daysAgo(60), DatePresentation: daysAgo(30), DateReview: daysAgo(10), DateFinalDiscussion: daysAhead(5),
			GitRepository: "https://github.com/example/cloud-energy-efficiency",
			Description:   "Analyzing power consumption patterns and optimization strategies",
			Review:        "Very good work. Some minor revisions needed in the conclusion section.",
		},
		{
			Title: "Augmented Reality Applications for Museum Exhibitions", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseCompleted,
			StudentIDs: student(3), SupervisorIDs: supervisor(4),
			DateFirstContact: daysAgo(220), DateTopicSelected: daysAgo(185), DateRegistration: daysAgo(160), DateDeadline: daysAgo(90), DatePresentation: daysAgo(60), DateReview: daysAgo(40), DateFinalDiscussion: daysAgo(20),
			GitRepository: "https://github.com/example/ar-museum",
			Description:   "Unity-based AR app for interactive historical exhibits",
			Review:        "Excellent thesis with practical implementation and thorough evaluation. Grade: 1.3",
		},
		{
			Title: "Automated Testing Strategies for Continuous Integration Pipelines", ThesisType: models.ThesisTypeBachelor, Phase: models.PhaseCompleted,
			StudentIDs: student(4), SupervisorIDs: supervisor(1),
			DateFirstContact: daysAgo(230), DateTopicSelected: daysAgo(195), DateRegistration: daysAgo(170), DateDeadline: daysAgo(100), DatePresentation: daysAgo(70), DateReview: daysAgo(50), DateFinalDiscussion: daysAgo(30),
			GitRepository: "https://github.com/example/ci-testing",
			Description:   "Comparing test automation frameworks in CI/CD environments",
			Review:        "Good work with comprehensive benchmarks. Grade: 1.7",
		},
	}
}

// demoComments returns sample discussion for a thesis that has reached the
// given phase, roughly one comment per lifecycle step it has passed.
func demoComments(phase models.Phase) []string {
	order := map[models.Phase]int{}
	for i, p := range models.ValidPhases {
		order[p] = i
	}
	reached := func(p models.Phase) bool { return order[phase] >= order[p] }

	var comments []string
	if phase == models.PhaseFirstContact || phase == models.PhaseTopicDiscussion {
		comments = append(comments, "Initial meeting held. Discussed potential topics and research directions.")
	}
	if reached(models.PhaseTopicDiscussion) && phase != models.PhaseAbandoned {
		comments = append(comments, "Topic finalized. Literature review in progress.")
	}
	if reached(models.PhaseWorking) && phase != models.PhaseAbandoned {
		comments = append(comments,
			"First implementation milestone reached. Initial results look promising.",
			"Regular progress meeting. Discussed methodology and next steps.",
		)
	}
	if reached(models.PhaseSubmitted) && phase != models.PhaseAbandoned {
		comments = append(comments, "Thesis submitted. Writing quality is good, implementation is solid.")
	}
	if reached(models.PhaseReviewed) && phase != models.PhaseAbandoned {
		comments = append(comments, "Review completed. Provided detailed feedback on improvements needed.")
	}
	if phase == models.PhaseCompleted {
		comments = append(comments, "Final discussion completed successfully. Congratulations!")
	}
	return comments
}
