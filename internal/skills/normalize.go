// Package skills canonicalizes skill-name spelling. The table is a static
// lookup carried over from the production master data; it is maintained by
// hand, not derived.
package skills

import (
	"strings"
)

// normalizationMap maps each canonical name to the spellings seen in mail
// traffic. The reverse index used at runtime is built from it once.
var normalizationMap = map[string][]string{
	// プログラミング言語
	".NET":    {".Net"},
	"C#.NET":  {"C#.net"},
	"VB.NET":  {"VB.net"},
	"ASP.NET": {"ASP.Net"},

	// クラウド・インフラ
	"CI/CD":            {"CICD"},
	"Active Directory": {"ActiveDirectory"},

	// データベース
	"MySQL":      {"My SQL"},
	"PostgreSQL": {"Postgre SQL", "Postgres", "PostgresSQL"},
	"SQL Server": {"SQLSerer", "SQLServer"},
	"Oracle DB":  {"OracleDB", "Oracle DataBase"},
	"PL/SQL":     {"PL-SQL"},

	// フレームワーク・ライブラリ
	"CakePHP":      {"Cake PHP"},
	"CodeIgniter":  {"Codeigniter"},
	"Spring Boot":  {"Spring boot", "SpringBoot", "Springboot"},
	"Next.js":      {"Next", "NextJS"},
	"Nest.js":      {"NestJS"},
	"React Native": {"ReactNative", "Reactnative"},

	// ツール
	"GitHub":         {"Github", "github"},
	"GitHub Actions": {"Github Actions"},
	"GitLab":         {"Gitlab"},
	"Git":            {"git"},
	"Backlog":        {"backlog"},
	"Confluence":     {"confluence"},
	"Miro":           {"miro"},
	"VS Code":        {"VSCode"},
	"Visual Studio":  {"VisualStudio"},
	"Android Studio": {"AndroidStudio"},
	"Excel VBA":      {"ExcelVBA"},
	"Playwright":     {"playwright"},

	// デザイン
	"After Effects": {"After effect", "AfterEffects"},
	"Premiere Pro":  {"Premiere", "PremierePro", "PremierPro"},
	"DreamWeaver":   {"Dreamweaver"},

	// インフラ・ネットワーク
	"VMware":         {"VMWare", "Vmware"},
	"Windows Server": {"WindowsServer", "Windowsサーバ", "Windowsサーバー"},
	"Windows OS":     {"WindowsOS"},
	"Linux":          {"linux"},
	"UNIX":           {"Unix"},
	"AIX":            {"Aix"},
	"RedHat":         {"Redhat"},
	"Nginx":          {"nginx"},

	// セキュリティ
	"Palo Alto":     {"PaloAlto", "Paloalto", "PaloAltoNetworks"},
	"Prisma Access": {"PrismaAccess"},
	"Entra ID":      {"EntraID", "Active Directory/Entra ID"},

	// AWS サービス
	"AWS Lambda":     {"Lambda"},
	"AWS S3":         {"S3"},
	"AWS RDS":        {"RDS", "Amazon RDS"},
	"AWS CloudWatch": {"CloudWatch"},
	"AWS WAF":        {"AWSWAF"},
	"Route 53":       {"Route53"},
	"Step Functions": {"StepFunctions"},

	// GCP
	"Google Cloud": {"GoogleCloud", "GCP"},

	// Microsoft
	"Microsoft 365": {"Microsoft365", "M365"},
	"Power BI":      {"PowerBI"},
	"SharePoint":    {"Sharepoint"},

	// その他
	"JavaScript":   {"Javascript", "JS"},
	"TypeScript":   {"Typescript"},
	"Scala":        {"scala"},
	"Java":         {"JAVA", "java"},
	"SCSS":         {"scss"},
	"HTML/CSS":     {"HTML", "CSS", "HTML5", "CSS3"},
	"WordPress":    {"Wordpress"},
	"Salesforce":   {"SalesForce"},
	"Tableau":      {"tableau"},
	"Terraform":    {"terraform"},
	"Docker":       {"docker"},
	"Kubernetes":   {"K8s"},
	"SageMaker":    {"Sagemaker"},
	"Splunk":       {"SPLUNK"},
	"Zabbix":       {"ZABBIX"},
	"Jenkins":      {"JENKINS"},
	"Jira":         {"JIRA"},
	"JUnit":        {"Junit"},
	"Shell Script": {"ShellScript", "Shellscript", "SHELL", "Shell", "Shellスクリプト", "シェルスクリプト"},
	"REST API":     {"RestAPI", "RESTful API"},
	"Web":          {"WEB", "Webシステム", "Webアプリケーション"},
	"Windows":      {"windows"},
	"Spring":       {"spring"},
	"AJAX":         {"Ajax"},
	"NET-COBOL":    {"NetCOBOL"},
	"HULFT":        {"Hulft"},
	"Intra-mart":   {"Intramart", "intra-mart"},
}

// reverseMap maps every known variant spelling to its canonical name
var reverseMap = buildReverseMap()

func buildReverseMap() map[string]string {
	reverse := make(map[string]string)
	for standard, variants := range normalizationMap {
		for _, variant := range variants {
			reverse[variant] = standard
		}
	}
	return reverse
}

// Normalize returns the canonical spelling of a skill name. Unknown names
// are returned trimmed but otherwise untouched.
func Normalize(name string) string {
	trimmed := strings.TrimSpace(name)
	if standard, ok := reverseMap[trimmed]; ok {
		return standard
	}
	return trimmed
}

// NormalizeAll normalizes a list of skill names and removes duplicates,
// preserving first-seen order. Empty names are dropped.
func NormalizeAll(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		normalized := Normalize(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}
