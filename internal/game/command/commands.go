// Package command provides the chat command registry, the chat line parser,
// and the built-in command definitions.
package command

// Categories for organizing commands in help output.
const (
	CategoryWeather = "weather"
	CategoryOdds    = "odds"
	CategoryRolls   = "rolls"
	CategoryStats   = "stats"
	CategoryInfo    = "info"
)

// Handler identifiers mapping commands to bot handlers.
const (
	HandlerWeather       = "weather"
	HandlerThunderOdds   = "thunderodds"
	HandlerSkullOdds     = "skullodds"
	HandlerTridentOdds   = "tridentodds"
	HandlerRollTrident   = "rolltrident"
	HandlerRollGunpowder = "rollgp"
	HandlerRollDrowned   = "rolldrowned"
	HandlerFishing       = "fishing"
	HandlerRollBiome     = "rollbiome"
	HandlerRollCats      = "rollcats"
	HandlerRollBlazeRods = "rollblazerods"
	HandlerRollSkulls    = "rollskulls"
	HandlerRollSilence   = "rollsilence"
	HandlerRollHeavyCore = "rollheavycore"
	HandlerFindSeed      = "findseed"
	HandlerRollSeed      = "rollseed"
	HandlerAge           = "age"
	HandlerRollAASSG     = "rollaassg"
	HandlerRollPhantoms  = "rollphantoms"
	HandlerTopCommands   = "topcommands"
	HandlerTopChatters   = "topchatters"
	HandlerTopSpammers   = "topspammers"
	HandlerTridentTop    = "tridentjuicers"
	HandlerTridentDaily  = "dailytridentjuicers"
	HandlerTridentZeros  = "tridentnoobs"
	HandlerGunpowderTop  = "gpjuicers"
	HandlerCommandStats  = "commandstats"
	HandlerRaid          = "raid"
	HandlerHelp          = "help"
	HandlerText          = "text"
)

// Command defines a chat-invocable command.
type Command struct {
	// Name is the canonical command name, without the prefix.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text listed by the help command.
	Help string
	// Usage is the argument synopsis shown when arguments are invalid, e.g.
	// "{drops} {kills} {looting level}". Empty for commands without arguments.
	Usage string
	// Category groups the command for help output.
	Category string
	// Handler maps to the bot handler that produces the reply.
	Handler string
}

// BuiltinCommands returns all built-in commands of the bot.
func BuiltinCommands() []Command {
	return []Command{
		// Weather and mob timing
		{Name: "weather", Help: "Roll the first thunderstorm of a world", Category: CategoryWeather, Handler: HandlerWeather},
		{Name: "thunderodds", Usage: "{time in minutes}", Help: "Odds of thunder within the given minutes", Category: CategoryWeather, Handler: HandlerThunderOdds},
		{Name: "rollphantoms", Aliases: []string{"phantoms"}, Help: "Roll the first group of phantoms", Category: CategoryWeather, Handler: HandlerRollPhantoms},

		// Exact odds
		{Name: "skullodds", Usage: "{drops} {kills} {looting level}", Help: "Odds of wither skeleton skull drops", Category: CategoryOdds, Handler: HandlerSkullOdds},
		{Name: "tridentodds", Usage: "{durability}", Help: "Odds of a drowned trident durability", Category: CategoryOdds, Handler: HandlerTridentOdds},

		// Rolls
		{Name: "rolltrident", Aliases: []string{"trident"}, Help: "Roll a drowned trident", Category: CategoryRolls, Handler: HandlerRollTrident},
		{Name: "rollgp", Aliases: []string{"gp"}, Help: "Roll desert temple gunpowder", Category: CategoryRolls, Handler: HandlerRollGunpowder},
		{Name: "rolldrowned", Usage: "{drowned} {looting level}", Help: "Roll drowned drops", Category: CategoryRolls, Handler: HandlerRollDrowned},
		{Name: "fishinge", Aliases: []string{"fish"}, Help: "Go fishing", Category: CategoryRolls, Handler: HandlerFishing},
		{Name: "rollbiome", Help: "Roll a spawn biome", Category: CategoryRolls, Handler: HandlerRollBiome},
		{Name: "rollcats", Usage: "{cats number}", Help: "Roll village cat variants", Category: CategoryRolls, Handler: HandlerRollCats},
		{Name: "rollblazerods", Usage: "{rods} {looting level}", Help: "Roll blaze kills for a number of rods", Category: CategoryRolls, Handler: HandlerRollBlazeRods},
		{Name: "rollskulls", Usage: "{skulls} {looting level}", Help: "Roll wither skeleton kills for a number of skulls", Category: CategoryRolls, Handler: HandlerRollSkulls},
		{Name: "rollsilence", Help: "Roll ancient city chests for the Silence Trim", Category: CategoryRolls, Handler: HandlerRollSilence},
		{Name: "rollheavycore", Help: "Roll ominous vaults for the Heavy Core", Category: CategoryRolls, Handler: HandlerRollHeavyCore},
		{Name: "findseed", Help: "Roll the eyes of an end portal", Category: CategoryRolls, Handler: HandlerFindSeed},
		{Name: "rollseed", Help: "Roll a world seed", Category: CategoryRolls, Handler: HandlerRollSeed},
		{Name: "age", Help: "Roll the streamer's age", Category: CategoryRolls, Handler: HandlerAge},
		{Name: "rollaassg", Help: "Roll an AA SSG run", Category: CategoryRolls, Handler: HandlerRollAASSG},

		// Statistics
		{Name: "topcommands", Help: "Most used commands", Category: CategoryStats, Handler: HandlerTopCommands},
		{Name: "topchatters", Help: "Chatters with the most messages", Category: CategoryStats, Handler: HandlerTopChatters},
		{Name: "topspammers", Help: "Chatters with the most command uses", Category: CategoryStats, Handler: HandlerTopSpammers},
		{Name: "tridentjuicers", Help: "Best trident rolls", Category: CategoryStats, Handler: HandlerTridentTop},
		{Name: "dailytridentjuicers", Help: "Best trident rolls in the last 24 hours", Category: CategoryStats, Handler: HandlerTridentDaily},
		{Name: "tridentnoobs", Help: "Most 0 durability trident rolls", Category: CategoryStats, Handler: HandlerTridentZeros},
		{Name: "gpjuicers", Help: "Best gunpowder rolls", Category: CategoryStats, Handler: HandlerGunpowderTop},
		{Name: "commandstats", Usage: "{command name}", Help: "Top users of a command", Category: CategoryStats, Handler: HandlerCommandStats},

		// Info
		{Name: "raid", Help: "Current raid list", Category: CategoryInfo, Handler: HandlerRaid},
		{Name: "commands", Aliases: []string{"help"}, Help: "List commands", Category: CategoryInfo, Handler: HandlerHelp},
	}
}

// TextCommand returns a fixed-reply command named name.
func TextCommand(name string) Command {
	return Command{Name: name, Help: "Fixed reply", Category: CategoryInfo, Handler: HandlerText}
}
