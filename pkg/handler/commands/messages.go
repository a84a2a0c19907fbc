package commands

// Texts sent back to Slack users.
const (
	msgDefaultError     = "Your request could not be processed :speak_no_evil:\nTry again later or ask for help in %s."
	msgErrorSupport     = "Is this a mistake? Even the smartest monkeys get it wrong sometimes :grin:\nAsk for help in %s."
	msgOverloaded       = "Not enough monkeys to go around! :hear_no_evil::see_no_evil::speak_no_evil:\n"
	msgUnverifiedOrigin = "Your request comes from a suspicious place...\n"
	msgUnauthorized     = "*YOU CAN'T DO THAT!*\nIs this a mistake? Ask for help in %s."
	msgBadUsage         = "*ERROR* Check the command usage.\n"

	usageCreateTeam      = "*Usage*: `/create-team <team name>`"
	usageJoinTeam        = "*Usage*: `/join <entry code>`"
	usageBuy             = "*Usage*: `/buy <@destination user> <amount> <description>`"
	usageTransactions    = "*Usage*: `%s [quantity]`"
	usageTeamDetails     = "*Usage*: `/team-details <team-id>`"
	usageUserDetails     = "*Usage*: `/details [@user|user-id]`\n_You can identify the user by ID or by @mention._"
	usagePermissions     = "*Usage*: `/change-permissions <@user> <admin|staff|remove>`"
	usageHackerboy       = "*Usage*: `/hackerboy <amount> <description>`"
	usageHackerboyTeam   = "*Usage*: `/hackerboy-team <team-id> <amount> <description>`"
	usageUserTransaction = "*Usage*: `/user-transactions <@user> [quantity]`"
	usageTeamTransaction = "*Usage*: `/team-transactions <team-id> [quantity]`"

	msgTeamRegistered        = "Team registered! :banana:"
	msgTeamRegistration      = "*Name*: %s\n*Code*: %s\n*ID*: %s"
	msgTeamNameExists        = "*ERROR!* A team named '_%s_' already exists."
	msgJoinTeamSuccess       = "*Congratulations!*\nYou were added to team '%s'"
	msgAlreadyOnTeam         = "You are already on a team!\n"
	msgInvalidCode           = "Invalid entry code!\n"
	msgNoTeam                = "*You are not on a team yet!* Join one with `/join <entry code>`.\n"
	msgBalanceSuccess        = "Here are your account's financial details!"
	msgBalanceDetails        = "*Team*: %s\n*Balance*: %s :money_with_wings:"
	msgBuyNoDestination      = "*Error!* You must name the destination user.\n" + usageBuy
	msgBuySameUser           = "*Error!* You can't give money to yourself :thinking_face:"
	msgBuyDestinationNoTeam  = "*The destination user has no team yet!*\n"
	msgBuySameTeam           = "*The destination user is on your team!*\n"
	msgInvalidValue          = "*Error!* The value you entered is invalid!\n"
	msgInvalidQuantity       = "*Error!* The quantity you entered is invalid!\n"
	msgBuyNotEnoughMoney     = "*You don't have enough money!*\n"
	msgBuySuccess            = "Your transfer of %s :money_with_wings: to <@%s> was successful!"
	msgTransactionReceived   = "Nice! You received a transfer of %s :money_with_wings: from <@%s>!\n_%s_"
	msgTeamTransactions      = "Here are the last %d transactions of your team:\n"
	msgMyTransactions        = "Here are your last %d transactions:\n"
	msgUserTransactions      = "Here are the last %d transactions of <@%s>:\n"
	msgTeamTransactionsAdmin = "Here are the last %d transactions of team '%s':\n"
	msgAllTransactions       = "Here are the last %d transactions of the NEECathon:\n"
	msgNoTransactions        = "No transactions found."
	msgListTeams             = "Here is the list of the %d participating teams:\n"
	msgListTeamsDetails      = "_%d_: *Name:* %s | *Balance:* %s | *ID:* %s\n"
	msgListRegistrations     = "Here are the %d registered teams:\n"
	msgListRegistrationLine  = "_%d_: *Name:* %s | *ID:* %s | *Code:* %s\n"
	msgTeamDetails           = "Here are the team details:\n*Name:* %s | *Balance:* %s :money_with_wings: | *ID:* %s\n"
	msgTeamMember            = "_Member:_ *Name:* <@%s|%s> | *ID:* %s\n"
	msgTeamNoMembers         = "No players were found on the team."
	msgTeamNotFound          = "*ERROR:* That team does not exist."
	msgUserDetails           = "*Information:*\n*Name:* <@%s|%s> | *ID:* %s | *Team:* %s"
	msgUserNotFound          = "No user was found with that ID/name."
	msgPermissionsChanged    = "The user's permissions were changed!"
	msgPermissionsNoChannel  = "The user's permissions were changed!\nThe user could not be added to/removed from the staff channel, please do it manually."
	msgListStaff             = "Here is the list of staff members!\n"
	msgListStaffLine         = "*Name:* <@%s|%s> | *Role:* %s | *ID:* %s\n"
	msgNoStaff               = "Nobody holds staff permissions yet."
	msgHackerboyAdd          = "Nice! We transferred %s :money_with_wings: to every team!"
	msgHackerboySub          = "Muahahah. We stole %s :money_with_wings: from every team!"
	msgHackerboyZero         = "Well, you might as well have stayed still... 0 plus or minus anything does not make much difference..."
	msgHackerboyNotEnough    = "Error. Not enough money on some teams: they would end up with a negative balance after a 'theft' of %s :money_with_wings:"
	msgHackerboyTeamAdd      = "Nice! We transferred %s :money_with_wings: to team '%s'!"
	msgHackerboyTeamSub      = "Muahahah. We stole %s :money_with_wings: from team '%s'!"
	msgHackerboyTeamNoMoney  = "Error. The team would end up with a negative balance after a 'theft' of %s :money_with_wings:"
	msgHackerboyTeamGift     = "The _hackerboy_ is generous! You received a transfer of %s :money_with_wings:!\n"
	msgHackerboyTeamTheft    = "The _hackerboy_ rebelled! You lost %s :money_with_wings: from your balance!\n"
	msgHackerboyTeamNote     = "He also left this message: ' _%s_ '."
)

// Descriptions stored in the request log.
const (
	auditInvalidCommand       = "Invalid request: 'command' field does not match to any known."
	auditUserAdditionFailed   = "Failed to add user to users table."
	auditUserSearchFailed     = "Failed to load user from database."
	auditPermissionFailed     = "Failed to check user permissions."
	auditUnauthorized         = "Unauthorized."
	auditMissingArgs          = "Not enough arguments."
	auditRegistrationFailed   = "Failed to save team registration."
	auditRegistrationSuccess  = "Team registration saved successfully."
	auditTeamNameExists       = "Team name already in use."
	auditTeamNameCheckFailed  = "Could not verify team name."
	auditUserAlreadyOnTeam    = "User already on team."
	auditInvalidEntryCode     = "Invalid entry code provided."
	auditEntryCodeFailed      = "Could not perform entry code validation."
	auditTeamCreationFailed   = "Team creation failed."
	auditTeamSearchFailed     = "Failed to search for the team on the database."
	auditAddUserToTeamFailed  = "Add user to team failed."
	auditJoinTeamSuccess      = "User joined team."
	auditUserWithoutTeam      = "User has no team."
	auditBalanceCheckFailed   = "User's team balance check failed."
	auditBalanceSuccess       = "Balance retrieved successfully."
	auditNoDestinationUser    = "Invalid destination user."
	auditUserNotFound         = "User not found."
	auditDestinationIsOrigin  = "Destination user is the requester."
	auditDestinationNoTeam    = "Destination user has no team."
	auditSameTeam             = "Destination and origin users are in the same team."
	auditTeamsCheckFailed     = "Origin and destination users teams check failed."
	auditAmountParsingFailed  = "Failed to parse value to decimal."
	auditNonPositiveAmount    = "Non positive transaction amount."
	auditQuantityParsing      = "Failed to parse quantity."
	auditNotEnoughCredit      = "User does not have enough credit."
	auditBuyFailed            = "Could not perform the transaction."
	auditBuySuccess           = "Transaction succeeded."
	auditTransactionsFailed   = "Could not perform transactions history search."
	auditTransactionsSuccess  = "Transaction list collected."
	auditTeamListFailed       = "Teams list search failed."
	auditTeamListSuccess      = "Teams list collected."
	auditRegistrationsFailed  = "Registration teams list search failed."
	auditRegistrationsSuccess = "Registration teams list collected."
	auditTeamDetailsFailed    = "Team details retrieve failed."
	auditTeamDetailsSuccess   = "Team details collected."
	auditBadUserFormat        = "Bad username/ID format."
	auditUserDetailsSuccess   = "User details collected."
	auditPermissionsFailed    = "Failed to add/update/remove user permissions."
	auditPermissionsSuccess   = "User permissions updated successfully."
	auditStaffFailed          = "Staff team lookup failed."
	auditStaffSuccess         = "Staff team retrieved."
	auditInvalidValue         = "Error parsing, invalid value."
	auditBalanceLimit         = "Resulting balance exceeds the limit."
	auditTeamsBalanceFailed   = "Failed to update all teams balance."
	auditTeamsBalanceSuccess  = "All teams balance updated."
	auditHackerboyNotEnough   = "Not enough money on some teams."
	auditTeamBalanceFailed    = "Failed to update team balance."
	auditTeamBalanceSuccess   = "Team balance updated."
	auditHackerboyTeamNoMoney = "Not enough money on team."
	auditTeamNotFound         = "Team not found."
	auditCommandFailed        = "Command processing failed."
)
