// internal/models/features.go
package models

// ProjectTitle is the name of the presented project
const ProjectTitle = "Rust-Relics"

// DefaultRoster is the built-in panel
func DefaultRoster() Roster {
	return MustRoster(
		Participant{
			Name:        "Lena",
			Role:        "Moderatorin",
			AccentColor: "#0EA5E9",
			Persona:     "Leitet das Gespräch, stellt kritische Fragen und provoziert Debatten, um die unterschiedlichen Standpunkte herauszuarbeiten.",
		},
		Participant{
			Name:        "Dr. Aris Thorne",
			Role:        "Backend-Architekt",
			AccentColor: "#F97316",
			Persona:     "Ein technischer Purist. Er bewertet alles nach technischer Eleganz und Effizienz. Für ihn ist eine \"clevere\" technische Lösung oft wichtiger als der unmittelbare Nutzen für den Spieler. Er ist skeptisch gegenüber \"Show-Features\".",
		},
		Participant{
			Name:        "Clara Vale",
			Role:        "Lead Game Designer",
			AccentColor: "#14B8A6",
			Persona:     "Eine Pragmatikerin, die sich ausschliesslich auf das Spielerlebnis konzentriert. Sie argumentiert, dass die beste Technologie diejenige ist, die den Spielern den meisten Spass bringt, auch wenn sie technisch weniger elegant ist.",
		},
	)
}

// DefaultFeatures returns the built-in feature cards
func DefaultFeatures() []Feature {
	return []Feature{
		{
			Title:   "Hybrid Vector-SQL Database",
			Icon:    "database",
			Summary: "A novel data layer combining SQLite with a custom-built in-memory vector engine, eliminating external ML dependencies.",
			Details: []string{
				"Combines SQLite for structured data with a proprietary memory-mapped solution for vector embeddings.",
				"Uses a simple, deterministic function (e.g., character stats, hashes) for vectorization, avoiding external ML models.",
				"A self-reliant approach, unlike solutions like `sqlite-vec` that extend SQLite with native vector types and SIMD.",
				"Ensures high performance for similarity searches directly within the game's backend architecture.",
			},
		},
		{
			Title:   "Standalone LLM-like Server",
			Icon:    "brain",
			Summary: "An intelligent in-memory server that generates semantic quests using pattern recognition and vector logic, not external AI APIs.",
			Details: []string{
				"Functions as a self-contained \"LLM\" without relying on external services like OpenAI or Gemini.",
				"Operates on predefined patterns and the existing quest vector logic from the hybrid database.",
				"Uniquely enables dynamic and semantic quest generation entirely within the project's own ecosystem.",
				"Provides fast, context-aware responses tailored to the game state.",
			},
		},
		{
			Title:   "Private Proof-of-Authority Blockchain",
			Icon:    "blockchain",
			Summary: "A from-scratch private PoA blockchain built in Node.js, uniquely integrating secure, authoritative game mechanics.",
			Details: []string{
				"Implements a full Proof-of-Authority (PoA) consensus mechanism from the ground up.",
				"Built entirely in Node.js, demonstrating a self-sufficient approach to blockchain integration.",
				"Securely records player scores and significant achievements on an immutable ledger.",
				"Merges blockchain principles with game mechanics in a way not commonly seen in existing projects.",
			},
		},
		{
			Title:   "Fully Integrated End-to-End System",
			Icon:    "integration",
			Summary: "A seamless fusion of a bespoke frontend, backend, database, and blockchain layer, creating a cohesive and singular technical marvel.",
			Details: []string{
				"Frontend: Angular coupled with a custom Canvas-based Voxel Engine for a unique visual experience.",
				"Backend: Node.js/Express powering the custom database and LLM-like server.",
				"Blockchain Layer: The custom PoA chain for score and progress integrity.",
				"Admin Panel: A full CRUD interface for managing game content and monitoring the system.",
				"This complete, seamless integration of novel components marks the project as a true technical world-first.",
			},
		},
	}
}
