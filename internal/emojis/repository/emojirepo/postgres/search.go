package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	repo "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo"
	"github.com/Masterminds/squirrel"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns one page of matching emojis and the number of matches overall.
func (er EmojisPostgresRepo) Search(ctx context.Context, //nolint:nonamedreturns
	req repo.SearchRequest,
) (emojis []models.Emoji, total int, err error) {
	query, args, err := buildCountQuery(req)
	if err != nil {
		return nil, 0, err
	}

	if err := er.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scan error: %w", err)
	}

	if total == 0 {
		return []models.Emoji{}, 0, nil
	}

	sb, err := searchSelect(req)
	if err != nil {
		return nil, 0, err
	}

	emojis, err = er.list(ctx, sb)
	if err != nil {
		return nil, 0, err
	}

	return emojis, total, nil
}

// searchCondition matches every whitespace separated term of the keyword against the name,
// the description or any tag of an emoji. For the tag target the keyword has to equal a tag name.
func searchCondition(req repo.SearchRequest) squirrel.Sqlizer {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil
	}

	if req.Target == models.TargetTag {
		return squirrel.Expr("EXISTS (SELECT 1 FROM tags t WHERE t.emoji_id = e.id AND t.name = ?)", keyword)
	}

	cond := squirrel.And{}

	for _, term := range strings.Fields(keyword) {
		pattern := "%" + likeEscaper.Replace(term) + "%"

		cond = append(cond, squirrel.Or{
			squirrel.ILike{"e.name": pattern},
			squirrel.ILike{"e.description": pattern},
			squirrel.Expr("EXISTS (SELECT 1 FROM tags t WHERE t.emoji_id = e.id AND t.name ILIKE ?)", pattern),
		})
	}

	return cond
}

func searchSelect(req repo.SearchRequest) (squirrel.SelectBuilder, error) {
	sb := selectEmojis()

	if cond := searchCondition(req); cond != nil {
		sb = sb.Where(cond)
	}

	switch req.Order {
	case models.OrderNew, "":
		sb = sb.OrderBy("e.created_at DESC", "e.id DESC")
	case models.OrderPopular:
		sb = sb.OrderBy("downloads DESC", "e.created_at DESC", "e.id DESC")
	default:
		return sb, fmt.Errorf("unknown order %q", req.Order)
	}

	if req.Limit != 0 {
		sb = sb.Limit(req.Limit)
	}

	return sb.Offset(req.Offset), nil
}

func buildCountQuery(req repo.SearchRequest) (string, []interface{}, error) {
	sb := psql().Select("COUNT(*)").From("emojis e")

	if cond := searchCondition(req); cond != nil {
		sb = sb.Where(cond)
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("to sql error: %w", err)
	}

	return query, args, nil
}
