package main

import (
	"context"
	"errors"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/cozinhecomigo/recipes/backend/config"
	"github.com/cozinhecomigo/recipes/backend/internal/database"
	"github.com/cozinhecomigo/recipes/backend/internal/logger"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
)

const seedPassword = "senha123"

type seedUser struct {
	name      string
	email     string
	biography string
}

type seedRecipe struct {
	author          int
	title           string
	ingredients     []string
	instructions    string
	categories      []string
	portions        int
	preparationTime int
	public          bool
}

var users = []seedUser{
	{"Ana Souza", "ana@example.com", "Cozinheira de fim de semana, fã de doces mineiros."},
	{"Bruno Lima", "bruno@example.com", "Churrasqueiro e padeiro amador."},
	{"Carla Mendes", "carla@example.com", "Receitas vegetarianas para o dia a dia."},
}

var recipes = []seedRecipe{
	{0, "Pão de queijo", []string{"500g de polvilho azedo", "250ml de leite", "100ml de óleo", "2 ovos", "200g de queijo meia cura"},
		"Escalde o polvilho com leite e óleo ferventes. Junte os ovos e o queijo, enrole e asse a 180°C por 25 minutos.",
		[]string{"lanche", "mineira"}, 30, 50, true},
	{0, "Brigadeiro", []string{"1 lata de leite condensado", "2 colheres de cacau", "1 colher de manteiga"},
		"Cozinhe tudo em fogo baixo mexendo até desgrudar da panela. Espere esfriar e enrole.",
		[]string{"doce", "festa"}, 20, 20, true},
	{0, "Doce de leite caseiro", []string{"2 litros de leite", "500g de açúcar", "1 pitada de bicarbonato"},
		"Leve ao fogo baixo mexendo sempre por cerca de duas horas até engrossar.",
		[]string{"doce", "mineira"}, 10, 150, false},
	{1, "Picanha na brasa", []string{"1,2kg de picanha", "sal grosso"},
		"Corte em bifes grossos, salgue e asse em brasa alta virando uma vez.",
		[]string{"churrasco"}, 6, 40, true},
	{1, "Pão francês", []string{"1kg de farinha", "20g de fermento biológico", "20g de sal", "600ml de água"},
		"Sove até a massa ficar lisa, deixe crescer, modele e asse com vapor a 220°C.",
		[]string{"padaria"}, 12, 180, true},
	{2, "Moqueca de banana-da-terra", []string{"4 bananas-da-terra", "1 pimentão", "1 cebola", "400ml de leite de coco", "azeite de dendê"},
		"Refogue os legumes em camadas, junte a banana e o leite de coco e cozinhe por 20 minutos.",
		[]string{"vegetariana", "baiana"}, 4, 45, true},
	{2, "Salada de grão-de-bico", []string{"2 xícaras de grão-de-bico cozido", "tomate", "pepino", "cheiro-verde", "limão"},
		"Misture tudo e tempere com limão, azeite e sal.",
		[]string{"vegetariana", "salada"}, 4, 15, true},
}

func main() {
	dryRun := flag.Bool("dry-run", false, "log what would be created without writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(string(config.GetEnvironment()), "info").Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(string(config.GetEnvironment()), cfg.LogLevel)

	if *dryRun {
		log.WithFields(logrus.Fields{"users": len(users), "recipes": len(recipes)}).Info("Dry run, nothing written")
		return
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, log); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.TokenTTL)
	recipeService := service.NewRecipeService(db, auth, nil)

	tokens := make([]string, len(users))
	for i, u := range users {
		_, err := auth.Register(ctx, service.RegisterInput{
			Name:      u.name,
			Email:     u.email,
			Password:  seedPassword,
			Biography: u.biography,
		})
		if err != nil && !errors.Is(err, service.ErrEmailTaken) {
			log.Fatalf("Failed to register %s: %v", u.email, err)
		}

		token, _, err := auth.Login(ctx, u.email, seedPassword)
		if err != nil {
			log.Fatalf("Failed to log in %s: %v", u.email, err)
		}
		tokens[i] = token.Code
	}

	created := 0
	for _, r := range recipes {
		portions, prep := r.portions, r.preparationTime
		recipe, err := recipeService.CreateRecipe(ctx, service.CreateRecipeInput{
			Title:           r.title,
			Ingredients:     r.ingredients,
			Instructions:    r.instructions,
			IsPublic:        r.public,
			Categories:      r.categories,
			Portions:        &portions,
			PreparationTime: &prep,
		}, tokens[r.author])
		if err != nil {
			log.WithError(err).WithField("title", r.title).Error("Failed to create recipe")
			continue
		}
		created++
		log.WithFields(logrus.Fields{"id": recipe.ID, "title": recipe.Title}).Info("Created recipe")
	}

	for _, token := range tokens {
		if err := auth.Logout(ctx, token); err != nil {
			log.WithError(err).Warn("Failed to revoke seed token")
		}
	}

	log.WithField("count", created).Info("Seeding complete")
}
