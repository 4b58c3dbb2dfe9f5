package services

import (
	"context"
	"fmt"

	"drive-thru/db"
	"drive-thru/models"
)

// PostgresCatalogue reads store catalogues from db.Pool on every call, so
// availability changes made by another process are seen immediately.
type PostgresCatalogue struct{}

func (PostgresCatalogue) Catalogue(ctx context.Context, storeID string) (Catalogue, error) {
	c, err := loadCatalogue(ctx, storeID)
	if err != nil {
		return Catalogue{}, err
	}
	if len(c.Products) == 0 && storeID != DefaultStoreID {
		c, err = loadCatalogue(ctx, DefaultStoreID)
		if err != nil {
			return Catalogue{}, err
		}
		c.StoreID = storeID
	}
	if len(c.Products) == 0 {
		return Catalogue{}, fmt.Errorf("%w: %s", ErrStoreNotFound, storeID)
	}
	return c, nil
}

func (PostgresCatalogue) SetAvailability(ctx context.Context, storeID, productID string, available bool) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE products SET available = $1, updated_at = now()
		WHERE store_id = $2 AND id = $3`,
		available, storeID, productID,
	)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", ErrProductNotFound, storeID, productID)
	}
	return nil
}

func loadCatalogue(ctx context.Context, storeID string) (Catalogue, error) {
	c := Catalogue{StoreID: storeID}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, short_name, category, synonyms, ingredients, available, base_price
		FROM products
		WHERE store_id = $1
		ORDER BY position, id`,
		storeID,
	)
	if err != nil {
		return c, fmt.Errorf("load products: %w", err)
	}
	index := make(map[string]int)
	for rows.Next() {
		var p models.Product
		var category string
		if err := rows.Scan(&p.ID, &p.Name, &p.ShortName, &category, &p.Synonyms, &p.Ingredients, &p.Available, &p.BasePrice); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan product: %w", err)
		}
		p.Category = models.Category(category)
		index[p.ID] = len(c.Products)
		c.Products = append(c.Products, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, fmt.Errorf("load products: %w", err)
	}
	if len(c.Products) == 0 {
		return c, nil
	}

	rows, err = db.Pool.Query(ctx, `
		SELECT product_id, size, display_name, price_modifier
		FROM product_sizes
		WHERE store_id = $1
		ORDER BY product_id, position`,
		storeID,
	)
	if err != nil {
		return c, fmt.Errorf("load sizes: %w", err)
	}
	for rows.Next() {
		var productID, size string
		var opt models.ProductSizeOption
		if err := rows.Scan(&productID, &size, &opt.DisplayName, &opt.PriceModifier); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan size: %w", err)
		}
		opt.Size = models.Size(size)
		if i, ok := index[productID]; ok {
			c.Products[i].Sizes = append(c.Products[i].Sizes, opt)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, fmt.Errorf("load sizes: %w", err)
	}

	rules, err := loadMenuRules(ctx, storeID)
	if err != nil {
		return c, err
	}
	c.Rules = rules

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("catalogue %s: %w", storeID, err)
	}
	return c, nil
}

func loadMenuRules(ctx context.Context, storeID string) ([]models.MenuRule, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.menu_product_id, r.name, c.position, c.type, c.display_name, c.min_count, c.max_count,
			c.allowed_product_ids, c.default_product_id, c.price_included
		FROM menu_rules r
		JOIN menu_components c ON c.store_id = r.store_id AND c.menu_product_id = r.menu_product_id
		WHERE r.store_id = $1
		ORDER BY r.menu_product_id, c.position`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("load menu rules: %w", err)
	}

	type slot struct{ rule, comp int }
	var rules []models.MenuRule
	slots := make(map[string]map[int]slot)
	for rows.Next() {
		var menuID, ruleName, typ string
		var pos int
		var comp models.MenuComponent
		if err := rows.Scan(&menuID, &ruleName, &pos, &typ, &comp.DisplayName, &comp.Min, &comp.Max,
			&comp.AllowedProductIDs, &comp.DefaultProductID, &comp.PriceIncluded); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan menu component: %w", err)
		}
		comp.Type = models.ComponentType(typ)
		if len(rules) == 0 || rules[len(rules)-1].MenuProductID != menuID {
			rules = append(rules, models.MenuRule{MenuProductID: menuID, Name: ruleName})
			slots[menuID] = make(map[int]slot)
		}
		r := &rules[len(rules)-1]
		slots[menuID][pos] = slot{rule: len(rules) - 1, comp: len(r.Components)}
		r.Components = append(r.Components, comp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load menu rules: %w", err)
	}

	rows, err = db.Pool.Query(ctx, `
		SELECT menu_product_id, component_position, product_id, extra_price, description
		FROM menu_upgrade_options
		WHERE store_id = $1
		ORDER BY menu_product_id, component_position, product_id`,
		storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("load upgrade options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var menuID string
		var pos int
		var up models.UpgradeOption
		if err := rows.Scan(&menuID, &pos, &up.ProductID, &up.ExtraPrice, &up.Description); err != nil {
			return nil, fmt.Errorf("scan upgrade option: %w", err)
		}
		if s, ok := slots[menuID][pos]; ok {
			comp := &rules[s.rule].Components[s.comp]
			comp.UpgradeOptions = append(comp.UpgradeOptions, up)
		}
	}
	return rules, rows.Err()
}

// ImportCatalogue replaces everything stored for c.StoreID with c.
func ImportCatalogue(ctx context.Context, c Catalogue) error {
	if err := c.Validate(); err != nil {
		return err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// sizes, rules, components and upgrades cascade
	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE store_id = $1`, c.StoreID); err != nil {
		return fmt.Errorf("clear store %s: %w", c.StoreID, err)
	}

	for pos, p := range c.Products {
		synonyms := p.Synonyms
		if synonyms == nil {
			synonyms = []string{}
		}
		ingredients := p.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO products (store_id, id, name, short_name, category, synonyms, ingredients, available, base_price, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			c.StoreID, p.ID, p.Name, p.ShortName, string(p.Category), synonyms, ingredients, p.Available, p.BasePrice, pos,
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
		for i, s := range p.Sizes {
			_, err := tx.Exec(ctx, `
				INSERT INTO product_sizes (store_id, product_id, size, display_name, price_modifier, position)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				c.StoreID, p.ID, string(s.Size), s.DisplayName, s.PriceModifier, i,
			)
			if err != nil {
				return fmt.Errorf("insert size %s/%s: %w", p.ID, s.Size, err)
			}
		}
	}

	for _, r := range c.Rules {
		if _, err := tx.Exec(ctx, `
			INSERT INTO menu_rules (store_id, menu_product_id, name) VALUES ($1, $2, $3)`,
			c.StoreID, r.MenuProductID, r.Name,
		); err != nil {
			return fmt.Errorf("insert menu rule %s: %w", r.MenuProductID, err)
		}
		for pos, comp := range r.Components {
			allowed := comp.AllowedProductIDs
			if allowed == nil {
				allowed = []string{}
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO menu_components (store_id, menu_product_id, position, type, display_name,
					min_count, max_count, allowed_product_ids, default_product_id, price_included)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				c.StoreID, r.MenuProductID, pos, string(comp.Type), comp.DisplayName,
				comp.Min, comp.Max, allowed, comp.DefaultProductID, comp.PriceIncluded,
			); err != nil {
				return fmt.Errorf("insert component %s/%d: %w", r.MenuProductID, pos, err)
			}
			for _, up := range comp.UpgradeOptions {
				if _, err := tx.Exec(ctx, `
					INSERT INTO menu_upgrade_options (store_id, menu_product_id, component_position, product_id, extra_price, description)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					c.StoreID, r.MenuProductID, pos, up.ProductID, up.ExtraPrice, up.Description,
				); err != nil {
					return fmt.Errorf("insert upgrade %s/%d/%s: %w", r.MenuProductID, pos, up.ProductID, err)
				}
			}
		}
	}

	return tx.Commit(ctx)
}
