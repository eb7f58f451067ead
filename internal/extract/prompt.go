package extract

import (
	"fmt"
)

// BuildJobExtractionPrompt renders the extraction prompt for one mail.
// The prompt carries the whole output contract: the field schema, the grade
// enum with its SE default, the 万円 conversion rules and the skill spelling
// rules. Changing it changes the wire format, so treat edits as schema
// changes.
func BuildJobExtractionPrompt(subject, body string) string {
	return fmt.Sprintf(`以下のメール本文から、案件情報を抽出してJSON形式で出力してください。

【メール件名】
%s

【メール本文】
%s

【指示】
1. このメールが案件情報（求人情報、プロジェクト募集、業務委託案件）を含む場合のみ、情報を抽出してください
2. 人材情報（エンジニアの経歴書、スキルシート）の場合は、titleを空文字にしてください
3. 営業メール、挨拶メール、会議調整などの場合も、titleを空文字にしてください
4. 各項目は以下のルールに従って抽出してください：

## 抽出ルール

- **title**: 案件のタイトル。メールから適切な案件名を生成してください（例: "React/TypeScript フロントエンドエンジニア"）
- **company**: 企業名またはクライアント名
- **grade**: ポジション。必ず以下のいずれかを設定してください（必須項目）
  - チームリーダー: チームリーダー、リーダー
  - テックリード: テックリード、技術責任者
  - PMO: PMO
  - PM: プロジェクトマネージャー、マネージャー
  - SE: その他のエンジニア（デフォルト）
  ※明示されていない場合、またはどれにも該当しない場合は必ず「SE」を設定してください
- **location**: 勤務地（例: "東京都渋谷区"）
- **unitPrice**: 単価（数値のみ、万円単位）
  - 「70万円(140-200)」 → 70（括弧内は無視）
  - 「550,000円」 → 55（10000で割る）
  - 「80万～100万」 → 100（上限）
- **summary**: 案件概要（200字以内で要約）
- **description**: 詳細説明（業務内容、開発環境など）
- **skills**: 必要なスキルの配列（例: ["React", "TypeScript", "AWS"]）
  - 技術名を正確に抽出し、以下の表記ルールに従って正規化してください
  - 大文字小文字: .NET, JavaScript, TypeScript, MySQL, PostgreSQL, GitHub, Git, Linux
  - スラッシュ表記: CI/CD, HTML/CSS, PL/SQL
  - スペース表記: React Native, Spring Boot, AWS Lambda, AWS S3, SQL Server
  - ハイフン表記: Intra-mart
  - フレームワーク略記: React（React.jsではなく）, Vue（Vue.jsではなく）, Next.js, Nest.js
  - 製品名: VMware, Windows Server, Microsoft 365, Power BI, Oracle DB
  - その他の統一表記: Palo Alto, Entra ID, Kubernetes（K8sではなく）, SageMaker

【出力形式】
必ず以下のJSON形式で返却してください。

{
  "title": "",
  "company": "",
  "grade": "SE",
  "location": "",
  "unitPrice": null,
  "summary": "",
  "description": "",
  "skills": []
}

※注意: gradeは必須項目です。nullは不可。
`, subject, body)
}
