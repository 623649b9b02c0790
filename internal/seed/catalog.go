package seed

import (
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/pkg/logger"
)

// EnsureCatalog populates the course catalog and landing page content on an
// empty database. A non-empty catalog is left untouched.
func EnsureCatalog(
	courseRepo repository.CourseRepository,
	moduleRepo repository.CourseModuleRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizQuestionRepository,
	testimonialRepo repository.TestimonialRepository,
	featureRepo repository.FeatureRepository,
) {
	count, err := courseRepo.Count()
	if err != nil {
		logger.Error(err, "Failed to check course catalog", nil)
		return
	}
	if count > 0 {
		logger.Info("Course catalog already present", map[string]interface{}{"courses": count})
		return
	}

	courses := []models.Course{
		{
			Title:         "Instagram para Vendas",
			Slug:          "instagram-para-vendas",
			Description:   "Transforme seu perfil em uma máquina de vendas com conteúdo estratégico e funis que convertem seguidores em clientes.",
			PriceCents:    19700,
			ImageURL:      "/images/courses/instagram-para-vendas.jpg",
			DurationHours: 8,
			Level:         "MAIS POPULAR",
			IsPopular:     true,
		},
		{
			Title:         "WhatsApp Estratégico",
			Slug:          "whatsapp-estrategico",
			Description:   "Atendimento e fechamento pelo WhatsApp: scripts, listas de transmissão e automações simples para vender todos os dias.",
			PriceCents:    14700,
			ImageURL:      "/images/courses/whatsapp-estrategico.jpg",
			DurationHours: 6,
			Level:         "Iniciante",
		},
		{
			Title:         "Design para Negócios",
			Slug:          "design-para-negocios",
			Description:   "Crie artes profissionais para o seu negócio sem depender de designer, com modelos prontos e identidade visual consistente.",
			PriceCents:    22700,
			ImageURL:      "/images/courses/design-para-negocios.jpg",
			DurationHours: 10,
			Level:         "Intermediário",
		},
		{
			Title:         "Tráfego Pago Essencial",
			Slug:          "trafego-pago-essencial",
			Description:   "Campanhas no Meta Ads do zero: públicos, criativos e métricas para escalar suas vendas com previsibilidade.",
			PriceCents:    29700,
			ImageURL:      "/images/courses/trafego-pago-essencial.jpg",
			DurationHours: 12,
			Level:         "Avançado",
		},
	}

	for i := range courses {
		if err := courseRepo.Create(&courses[i]); err != nil {
			logger.Error(err, "Failed to seed course", map[string]interface{}{"slug": courses[i].Slug})
			return
		}
	}

	seedInstagramCourse(courses[0].ID, moduleRepo, lessonRepo, quizRepo)
	seedLandingContent(testimonialRepo, featureRepo)

	logger.Info("Course catalog seeded", map[string]interface{}{"courses": len(courses)})
}

// seedInstagramCourse builds out the full structure of the flagship course.
// The remaining courses start without modules and get content through the
// admin endpoints.
func seedInstagramCourse(
	courseID uint,
	moduleRepo repository.CourseModuleRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizQuestionRepository,
) {
	modules := []models.CourseModule{
		{CourseID: courseID, Title: "Fundamentos do Instagram", Description: "Perfil otimizado e posicionamento", Position: 1},
		{CourseID: courseID, Title: "Conteúdo que Vende", Description: "Formatos, frequência e narrativa", Position: 2},
		{CourseID: courseID, Title: "Funil de Vendas no Direct", Description: "Da primeira mensagem ao fechamento", Position: 3},
		{CourseID: courseID, Title: "Análise e Escala", Description: "Métricas que importam e próximos passos", Position: 4},
	}

	for i := range modules {
		if err := moduleRepo.Create(&modules[i]); err != nil {
			logger.Error(err, "Failed to seed module", map[string]interface{}{"title": modules[i].Title})
			return
		}
	}

	intro := modules[0].ID
	lessons := []models.Lesson{
		{ModuleID: intro, Title: "Boas-vindas e método", Type: models.LessonTypeVideo, VideoURL: "/videos/instagram/boas-vindas.mp4", DurationSeconds: 420, Position: 1},
		{ModuleID: intro, Title: "Montando um perfil que converte", Type: models.LessonTypeVideo, VideoURL: "/videos/instagram/perfil-que-converte.mp4", DurationSeconds: 780, Position: 2},
		{ModuleID: intro, Title: "Definindo seu público ideal", Type: models.LessonTypeVideo, VideoURL: "/videos/instagram/publico-ideal.mp4", DurationSeconds: 660, Position: 3},
		{ModuleID: intro, Title: "Quiz: Fundamentos", Type: models.LessonTypeQuiz, Position: 4},
	}

	for i := range lessons {
		if err := lessonRepo.Create(&lessons[i]); err != nil {
			logger.Error(err, "Failed to seed lesson", map[string]interface{}{"title": lessons[i].Title})
			return
		}
	}

	quizLessonID := lessons[3].ID
	questions := []models.QuizQuestion{
		{
			LessonID:      quizLessonID,
			Question:      "Qual é o principal objetivo da bio do seu perfil?",
			Options:       models.StringArray{"Mostrar frases motivacionais", "Comunicar o que você vende e para quem", "Listar todos os seus hobbies", "Aumentar o número de hashtags"},
			CorrectOption: 1,
			Explanation:   "A bio precisa deixar claro em segundos o que você oferece e para quem, senão o visitante vai embora.",
			Position:      1,
		},
		{
			LessonID:      quizLessonID,
			Question:      "Com que frequência ideal você deve publicar conteúdo?",
			Options:       models.StringArray{"Uma vez por mês", "Apenas quando tiver promoção", "De forma consistente, conforme seu planejamento", "Dez vezes por dia, sempre"},
			CorrectOption: 2,
			Explanation:   "Consistência vale mais que volume: o algoritmo e a audiência respondem a um ritmo previsível.",
			Position:      2,
		},
		{
			LessonID:      quizLessonID,
			Question:      "O que define um público ideal bem construído?",
			Options:       models.StringArray{"Ser o maior possível", "Incluir todas as idades", "Seguir os concorrentes", "Ter dores e desejos específicos que seu produto resolve"},
			CorrectOption: 3,
			Explanation:   "Quanto mais específica a dor que você resolve, mais fácil é criar conteúdo e ofertas que convertem.",
			Position:      3,
		},
	}

	for i := range questions {
		if err := quizRepo.Create(&questions[i]); err != nil {
			logger.Error(err, "Failed to seed quiz question", map[string]interface{}{"position": questions[i].Position})
			return
		}
	}
}

func seedLandingContent(testimonialRepo repository.TestimonialRepository, featureRepo repository.FeatureRepository) {
	count, err := testimonialRepo.Count()
	if err != nil || count > 0 {
		return
	}

	testimonials := []models.Testimonial{
		{
			Name:        "Mariana Costa",
			CourseTitle: "Instagram para Vendas",
			Content:     "Em dois meses aplicando o método, dobrei as vendas pelo direct. O módulo de funil sozinho já pagou o curso.",
			AvatarURL:   "/images/testimonials/mariana.jpg",
			Rating:      5,
		},
		{
			Name:        "Carlos Eduardo",
			CourseTitle: "Tráfego Pago Essencial",
			Content:     "Saí do zero absoluto em anúncios para campanhas lucrativas. As aulas de métricas são diretas e sem enrolação.",
			AvatarURL:   "/images/testimonials/carlos.jpg",
			Rating:      5,
		},
		{
			Name:        "Juliana Alves",
			CourseTitle: "WhatsApp Estratégico",
			Content:     "Os scripts de atendimento mudaram meu negócio. Hoje fecho vendas todos os dias pelo WhatsApp.",
			AvatarURL:   "/images/testimonials/juliana.jpg",
			Rating:      4,
		},
	}

	for i := range testimonials {
		if err := testimonialRepo.Create(&testimonials[i]); err != nil {
			logger.Error(err, "Failed to seed testimonial", map[string]interface{}{"name": testimonials[i].Name})
			return
		}
	}

	features := []models.Feature{
		{Title: "Acesso vitalício", Description: "Compre uma vez e assista quando quiser, incluindo todas as atualizações futuras.", Icon: "infinity"},
		{Title: "Certificado de conclusão", Description: "Finalize as aulas e emita seu certificado na hora, direto da plataforma.", Icon: "award"},
		{Title: "Aprenda no seu ritmo", Description: "Aulas curtas e objetivas, com progresso salvo automaticamente em qualquer dispositivo.", Icon: "clock"},
	}

	for i := range features {
		if err := featureRepo.Create(&features[i]); err != nil {
			logger.Error(err, "Failed to seed feature", map[string]interface{}{"title": features[i].Title})
			return
		}
	}
}
